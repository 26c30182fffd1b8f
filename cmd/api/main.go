package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-match-api/internal/config"
	"github.com/go-match-api/internal/infrastructure/dynamo"
	"github.com/go-match-api/internal/infrastructure/google"
	jwtinfra "github.com/go-match-api/internal/infrastructure/jwt"
	s3infra "github.com/go-match-api/internal/infrastructure/s3"
	"github.com/go-match-api/internal/infrastructure/smtp"
	"github.com/go-match-api/internal/infrastructure/sns"
	transporthttp "github.com/go-match-api/internal/transport/http"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// Every authenticated route depends on token verification, so a missing
	// secret is fatal.
	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret, cfg.JWTExpiresIn, cfg.JWTExpiresInRaw)
	if err != nil {
		log.Fatalf("JWT provider: %v", err)
	}

	// S3 store for profile photos.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// SMTP mailer.
	mailer := smtp.NewMailer(cfg)

	// SNS SMS sender, optional.
	var smsSender sns.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	// Google sign-in, enabled only when a client ID is set.
	var googleVerifier *google.Verifier
	if cfg.GoogleClientID != "" {
		googleVerifier = google.NewVerifier(cfg.GoogleClientID)
	} else {
		log.Println("WARN: Google sign-in disabled, GOOGLE_CLIENT_ID not set")
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		ProfileRepo:      dynamo.NewProfileRepo(dynamoClient, cfg.DynamoTables.Profiles),
		SwipeRepo:        dynamo.NewSwipeRepo(dynamoClient, cfg.DynamoTables.Swipes),
		SubscriptionRepo: dynamo.NewSubscriptionRepo(dynamoClient, cfg.DynamoTables.Subscriptions),
		PlanRepo:         dynamo.NewPlanRepo(dynamoClient, cfg.DynamoTables.Plans),
		NotificationRepo: dynamo.NewNotificationRepo(dynamoClient, cfg.DynamoTables.Notifications),
		PhotoRepo:        dynamo.NewPhotoRepo(dynamoClient, cfg.DynamoTables.Photos),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.UserVerifications),
		S3Store:          s3Store,
		Mailer:           mailer,
		SMSSender:        smsSender,
		GoogleVerifier:   googleVerifier,
		JWTProvider:      jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
