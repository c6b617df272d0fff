package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carelink/internal/config"
	"carelink/internal/database"
	"carelink/internal/handlers"
	"carelink/internal/repository"
	"carelink/internal/security"
	"carelink/internal/service"
	"carelink/internal/storage"
	"carelink/internal/token"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.TokenSecret == "" {
		log.Fatal("TOKEN_SECRET must be set")
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize blob storage
	blobs, localDir, err := buildBlobStore(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	// Initialize email delivery; disabled unless a sender is configured
	emailService, err := service.NewEmailService(context.Background(), cfg.EmailSender, cfg.EmailRegion)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}
	if !emailService.IsEnabled() {
		log.Println("Email delivery disabled (no sender configured)")
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	mediaRepo := repository.NewMediaRepository(db)

	// Initialize services
	tokens := token.NewManager([]byte(cfg.TokenSecret), cfg.TokenTTL)
	authService := service.NewAuthService(accountRepo, tokens)
	graphService := service.NewGraphService(accountRepo, connectionRepo, emailService, cfg.ObserverConnectionLimit)
	guard := service.NewGuard(graphService)
	messageService := service.NewMessageService(messageRepo, guard)
	mediaService := service.NewMediaService(mediaRepo, graphService, guard)

	// Initialize handlers
	limiter := security.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	middleware := handlers.NewMiddleware(tokens, limiter)
	authHandler := handlers.NewAuthHandler(authService)
	profileHandler := handlers.NewProfileHandler(authService)
	connectionHandler := handlers.NewConnectionHandler(graphService)
	messageHandler := handlers.NewMessageHandler(messageService)
	mediaHandler := handlers.NewMediaHandler(mediaService, blobs, cfg.UploadMaxSize)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))

	// Account routes
	mux.HandleFunc("GET /api/search", middleware.RequireAuth(authHandler.Search))
	mux.HandleFunc("GET /api/profile/{id}", middleware.RequireAuth(profileHandler.Get))
	mux.HandleFunc("PUT /api/profile/{id}", middleware.RequireAuth(profileHandler.Update))

	// Connection routes
	mux.HandleFunc("POST /api/connections", middleware.RequireAuth(connectionHandler.Connect))
	mux.HandleFunc("GET /api/connections", middleware.RequireAuth(connectionHandler.List))
	mux.HandleFunc("GET /api/contacts", middleware.RequireAuth(mediaHandler.Contacts))

	// Message routes
	mux.HandleFunc("POST /api/messages", middleware.RequireAuth(messageHandler.Send))
	mux.HandleFunc("GET /api/messages/unread", middleware.RequireAuth(messageHandler.Unread))
	mux.HandleFunc("GET /api/messages/{peerID}", middleware.RequireAuth(messageHandler.ListBetween))
	mux.HandleFunc("POST /api/messages/{id}/read", middleware.RequireAuth(messageHandler.MarkRead))

	// Media routes
	mux.HandleFunc("POST /api/media", middleware.RequireAuth(mediaHandler.Upload))
	mux.HandleFunc("GET /api/media/recent", middleware.RequireAuth(mediaHandler.Recent))
	mux.HandleFunc("GET /api/media/{peerID}", middleware.RequireAuth(mediaHandler.ListBetween))
	mux.HandleFunc("POST /api/media/{id}/read", middleware.RequireAuth(mediaHandler.MarkRead))
	mux.HandleFunc("GET /api/media/{id}/url", middleware.RequireAuth(mediaHandler.ResolveURL))

	// Metrics
	mux.Handle("GET /metrics", handlers.MetricsHandler())

	// Locally stored uploads are served as static files
	if localDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(localDir))))
	}

	// Wrap with logging and metrics middleware
	handler := handlers.Logging(handlers.Metrics(mux))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

// buildBlobStore picks the configured blob backend. The returned directory
// is non-empty only for local storage, where uploads need a static route.
func buildBlobStore(cfg *config.Config) (storage.BlobStore, string, error) {
	if cfg.BlobBackend == "s3" {
		store, err := storage.NewS3Store(context.Background(), storage.S3Config{
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		return store, "", err
	}

	store, err := storage.NewLocalStore(cfg.UploadDir)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
