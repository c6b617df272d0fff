package service

import (
	"errors"
	"fmt"
)

var (
	ErrNotConnected  = errors.New("accounts are not connected")
	ErrUnknownTarget = errors.New("target account does not exist")
	ErrSelfTarget    = errors.New("operation cannot target the caller")
)

// Guard decides whether a caller may operate relative to a target account.
// Stateless: every decision is derived from the relationship graph at call
// time, never cached across requests.
type Guard struct {
	graph *GraphService
}

// NewGuard creates a new authorization guard
func NewGuard(graph *GraphService) *Guard {
	return &Guard{graph: graph}
}

// Authorize permits peer-scoped operations (send, list, unread queries)
// only across an established connection. The caller always acts as itself
// on the sending side; the target must be a distinct, existing, connected
// account.
func (g *Guard) Authorize(callerID, targetID int64) error {
	if callerID == targetID {
		return ErrSelfTarget
	}

	exists, err := g.graph.AccountExists(targetID)
	if err != nil {
		return fmt.Errorf("failed to resolve target: %w", err)
	}
	if !exists {
		return ErrUnknownTarget
	}

	connected, err := g.graph.IsConnected(callerID, targetID)
	if err != nil {
		return fmt.Errorf("failed to check connection: %w", err)
	}
	if !connected {
		return ErrNotConnected
	}

	return nil
}
