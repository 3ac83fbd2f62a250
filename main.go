package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"lockedin/internal/cache"
	"lockedin/internal/handlers"
	"lockedin/internal/middleware"
	"lockedin/internal/models"
	"lockedin/internal/repositories"
	"lockedin/internal/services"
	"lockedin/pkg/events"
	"lockedin/pkg/logger"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=lockedin port=5432 sslmode=disable")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("ALLOWED_ORIGIN", "http://localhost:3000")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("LEADERBOARD_CACHE_TTL", "30s")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_PRETTY", false)
	viper.AutomaticEnv()

	log := logger.Init(logger.Options{
		Level:  viper.GetString("LOG_LEVEL"),
		Pretty: viper.GetBool("LOG_PRETTY"),
	})

	jwtSecret := viper.GetString("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	// --- Database ---
	db, err := gorm.Open(postgres.Open(viper.GetString("DATABASE_DSN")), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	err = db.AutoMigrate(&models.User{}, &models.Task{}, &models.StudySession{}, &models.BlogPost{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	// --- Optional leaderboard cache ---
	var leaderboardCache services.LeaderboardCache
	if addr := viper.GetString("REDIS_ADDR"); addr != "" {
		client, err := cache.Connect(context.Background(), addr)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, leaderboard cache disabled")
		} else {
			defer client.Close()
			leaderboardCache = cache.NewLeaderboardCache(client, viper.GetDuration("LEADERBOARD_CACHE_TTL"))
		}
	}

	// --- Optional activity event broker ---
	var publisher services.ActivityPublisher
	var mqClient *events.Client
	if url := viper.GetString("RABBITMQ_URL"); url != "" {
		mqClient, err = events.NewClient(events.Config{URL: url})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, activity events disabled")
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	taskRepo := repositories.NewGORMTaskRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)
	postRepo := repositories.NewGORMPostRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, jwtSecret)
	taskService := services.NewTaskService(taskRepo)
	sessionService := services.NewSessionService(sessionRepo, publisher)
	postService := services.NewPostService(postRepo)
	leaderboardService := services.NewLeaderboardService(sessionRepo, leaderboardCache)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	postHandler := handlers.NewPostHandler(postService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		ErrorHandler: jsonErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: viper.GetString("ALLOWED_ORIGIN"),
		AllowMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	app.Use(middleware.RequestMetrics())

	// --- Routes ---
	authGuard := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(app, authGuard)
	taskHandler.RegisterRoutes(app, authGuard)
	sessionHandler.RegisterRoutes(app, authGuard)
	postHandler.RegisterRoutes(app, authGuard)
	leaderboardHandler.RegisterRoutes(app, authGuard)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// OPTIONS without an Origin header bypasses the CORS middleware; answer
	// it here so every preflight-shaped request gets 204.
	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	// Everything unmatched, any method.
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Route not found",
		})
	})

	// --- Activity event consumer ---
	if mqClient != nil {
		err := mqClient.Consume(func(msg amqp.Delivery) error {
			log.Info().Str("type", msg.Type).RawJSON("event", msg.Body).Msg("activity event")
			return nil
		})
		if err != nil {
			log.Warn().Err(err).Msg("failed to start activity event consumer")
		}
	}

	// --- Start HTTP server ---
	appPort := viper.GetString("APP_PORT")
	log.Info().Str("port", appPort).Msg("starting server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	<-quit
	log.Info().Msg("shutting down server")

	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server stopped")
}

// jsonErrorHandler converts every error that escapes a handler, including
// panics surfaced by the recover middleware, into a JSON response so no
// failure can take down request handling.
func jsonErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"message": err.Error(),
	})
}
