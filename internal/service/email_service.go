package service

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends transactional email through Amazon SES. When no
// sender address is configured the service is disabled and every send is
// a silent no-op.
type EmailService struct {
	client *sesv2.Client
	sender string
}

// NewEmailService creates an email service. An empty sender address yields
// a disabled service.
func NewEmailService(ctx context.Context, sender, region string) (*EmailService, error) {
	if sender == "" {
		return &EmailService{}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &EmailService{
		client: sesv2.NewFromConfig(cfg),
		sender: sender,
	}, nil
}

// IsEnabled reports whether the service can actually send email
func (s *EmailService) IsEnabled() bool {
	return s.client != nil && s.sender != ""
}

// SendConnectionEmail notifies an account that another account has
// connected with them
func (s *EmailService) SendConnectionEmail(ctx context.Context, to, recipientName, requesterName string) error {
	if !s.IsEnabled() {
		return nil
	}

	subject := "You have a new connection"
	body := fmt.Sprintf(
		"Hi %s,\n\n%s has connected with you. You can now exchange messages and share photos and videos with each other.\n\nThe CareLink team",
		recipientName, requesterName,
	)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
