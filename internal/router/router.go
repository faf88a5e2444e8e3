package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
	"github.com/socio-irdl/socio/backend/internal/handlers"
	"github.com/socio-irdl/socio/backend/internal/middleware"
	"github.com/socio-irdl/socio/backend/internal/models"
	"github.com/socio-irdl/socio/backend/internal/repositories"
	"github.com/socio-irdl/socio/backend/internal/services"
	"github.com/socio-irdl/socio/backend/internal/ws"
	"github.com/socio-irdl/socio/backend/pkg/config"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Info().Msg("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies.
// firebaseAuthClient may be nil when Firebase login is not configured.
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mdb *mongo.Database, firebaseAuthClient *auth.Client, hub *ws.Hub, cfg *config.Config) {
	// AutoMigrate the PostgreSQL side-effect logs
	if err := pgdb.AutoMigrate(
		&models.Activity{},
		&models.Notification{},
	); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate models.")
	}
	log.Info().Msg("PostgreSQL auto-migrations completed.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)
	e.Static("/profile_pics", cfg.UploadDir)

	// --- Initialize Repositories ---
	userRepo := repositories.NewMongoUserRepository(mdb)
	postRepo := repositories.NewMongoPostRepository(mdb)
	chatRepo := repositories.NewMongoChatRepository(mdb)
	activityRepo := repositories.NewPostgresActivityRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	activityCleaner := services.NewActivityCleaner(userRepo, postRepo, activityRepo)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient)
	authHandler.RegisterAuthRoutes(authGroup)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	userHandler := handlers.NewUserHandler(userRepo, postRepo, cfg.UploadDir, cfg.PublicBaseURL)
	userHandler.RegisterUserRoutes(api)

	followHandler := handlers.NewFollowHandler(userRepo, notificationRepo)
	followHandler.RegisterFollowRoutes(api)

	blockHandler := handlers.NewBlockHandler(userRepo, chatRepo)
	blockHandler.RegisterBlockRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, activityRepo, notificationRepo, cfg.UploadDir)
	postHandler.RegisterPostRoutes(api)

	feedHandler := handlers.NewFeedHandler(postRepo, userRepo)
	feedHandler.RegisterFeedRoutes(api)

	likeHandler := handlers.NewLikeHandler(userRepo, postRepo, activityRepo, notificationRepo, activityCleaner)
	likeHandler.RegisterLikeRoutes(api)

	bookmarkHandler := handlers.NewBookmarkHandler(userRepo, postRepo)
	bookmarkHandler.RegisterBookmarkRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	chatHandler := handlers.NewChatHandler(chatRepo, userRepo, hub)
	chatHandler.RegisterChatRoutes(api)

	log.Info().Msg("All routes configured.")
}
