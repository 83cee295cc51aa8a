package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"mathquiz/internal/config"
	"mathquiz/internal/handler"
	"mathquiz/internal/logger"
	"mathquiz/internal/middleware"
	"mathquiz/internal/repository"
	"mathquiz/internal/service"
	"mathquiz/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

func newSubstrate(cfg *config.Config) (store.Substrate, error) {
	switch cfg.Storage.Driver {
	case "memory":
		return store.NewMemorySubstrate(), nil
	case "file":
		return store.NewFileSubstrate(cfg.Storage.FilePath)
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Address, err)
		}
		return store.NewRedisSubstrate(client), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	kv, err := newSubstrate(cfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage substrate", zap.Error(err))
	}
	appLogger.Info("Storage substrate initialized", zap.String("driver", cfg.Storage.Driver))
	recordStore := store.New(kv, cfg.Storage.KeyPrefix)

	// Initialize repositories
	userRepository := repository.NewUserRepository(recordStore)
	sessionRepository := repository.NewSessionRepository(recordStore)
	statsRepository := repository.NewStatsRepository(recordStore)
	achievementRepository := repository.NewAchievementRepository(recordStore)

	// Initialize services
	achievementService := service.NewAchievementService(achievementRepository)
	if err := achievementService.EnsureCatalog(context.Background()); err != nil {
		appLogger.Fatal("Failed to seed achievement catalog", zap.Error(err))
	}
	statsService := service.NewStatsService(statsRepository, sessionRepository, achievementService)
	sessionService := service.NewSessionService(sessionRepository, statsService, achievementRepository)
	authService := service.NewAuthService(userRepository, sessionRepository, statsRepository, achievementRepository, cfg.JWT)
	leaderboardService := service.NewLeaderboardService(userRepository, sessionRepository)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	quizHandler := handler.NewQuizHandler(sessionService)
	statsHandler := handler.NewStatsHandler(statsService, achievementService, leaderboardService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	api := app.Group("/api")
	protected := middleware.Protected(authService)

	// Auth routes
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/restore", authHandler.RestoreAccount)

	// User routes
	api.Get("/users", protected, authHandler.ListUsers)
	api.Get("/users/me", protected, authHandler.GetCurrentUser)
	api.Put("/users/me/theme", protected, authHandler.UpdateTheme)
	api.Delete("/users/me", protected, authHandler.DeleteAccount)
	api.Delete("/users/me/permanent", protected, authHandler.PermanentDeleteAccount)

	// Quiz session routes
	api.Post("/quiz/start", protected, quizHandler.StartQuiz)
	api.Post("/quiz/question", protected, quizHandler.AddQuestion)
	api.Post("/quiz/answer", protected, quizHandler.SubmitAnswer)
	api.Post("/quiz/finish", protected, quizHandler.FinishQuiz)
	api.Get("/history", protected, quizHandler.GetHistory)
	api.Delete("/sessions/:id", protected, quizHandler.DeleteSession)

	// Score routes
	api.Post("/scores", protected, quizHandler.SaveScore)
	api.Get("/scores", protected, quizHandler.GetScores)
	api.Delete("/scores", protected, quizHandler.DeleteAllScores)
	api.Delete("/scores/latest", protected, quizHandler.DeleteLatestScore)

	// Stats routes
	api.Get("/stats", protected, statsHandler.GetStats)
	api.Post("/stats", protected, statsHandler.UpdateStats)
	api.Get("/achievements", protected, statsHandler.GetAchievements)
	api.Get("/leaderboard", statsHandler.GetLeaderboard)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
