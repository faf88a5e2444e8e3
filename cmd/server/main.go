package main

import (
	"context"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"github.com/socio-irdl/socio/backend/internal/router"
	"github.com/socio-irdl/socio/backend/internal/services"
	"github.com/socio-irdl/socio/backend/internal/ws"
	"github.com/socio-irdl/socio/backend/pkg/config"
	"github.com/socio-irdl/socio/backend/pkg/firebase"
	"github.com/socio-irdl/socio/backend/validators"
)

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize databases.")
	}
	defer db.CloseDB()

	mdb := db.Mongo.Database(cfg.MongoDatabase)

	// Firebase login is optional; the route is disabled without credentials
	ctx := context.Background()
	authClient, err := firebase.InitAuthClient(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Warn().Err(err).Msg("Firebase not configured, firebase-login disabled.")
		authClient = nil
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	// Setup global middleware
	router.SetupMiddleware(e)

	// Chat presence hub
	hub := ws.NewHub()

	// Setup routes and dependencies
	router.SetupRoutes(e, db.Postgres, mdb, authClient, hub, cfg)

	// Periodic activity cleanup sweep
	cleaner := services.NewActivityCleaner(
		repositories.NewMongoUserRepository(mdb),
		repositories.NewMongoPostRepository(mdb),
		repositories.NewPostgresActivityRepository(db.Postgres),
	)
	quartz := cron.New()
	quartz.AddFunc("@every 60m", func() { cleaner.CleanupAll(context.Background()) })
	quartz.Start()
	defer quartz.Stop()

	// Start server
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Server stopped.")
	}
}
