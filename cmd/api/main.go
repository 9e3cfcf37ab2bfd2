package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"vidquiz/internal/cache"
	"vidquiz/internal/config"
	"vidquiz/internal/database"
	"vidquiz/internal/domain"
	"vidquiz/internal/handler"
	"vidquiz/internal/logger"
	"vidquiz/internal/media"
	"vidquiz/internal/middleware"
	"vidquiz/internal/repository"
	"vidquiz/internal/service"
	"vidquiz/internal/synthesis"
	"vidquiz/internal/transcriber"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request with timing and status.
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

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger.Env, cfg.Logger.Level); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// LLM client for quiz synthesis. Gemini is reached through its
	// OpenAI-compatible endpoint, so the base URL decides the provider.
	llmOpts := []openai.Option{
		openai.WithToken(cfg.LLM.APIKey),
		openai.WithModel(cfg.LLM.Model),
	}
	if cfg.LLM.BaseURL != "" {
		llmOpts = append(llmOpts, openai.WithBaseURL(cfg.LLM.BaseURL))
	}
	llm, err := openai.New(llmOpts...)
	if err != nil {
		appLogger.Fatal("Failed to create LLM client", zap.Error(err))
	}

	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	quizRepository := repository.NewSQLXQuizRepository(db)
	userRepository := repository.NewSQLXUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Transcript caching is optional; the pipeline runs without it when
	// Redis is not configured.
	var transcriptCache domain.TranscriptCache
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		transcriptCache = cache.NewTranscriptCache(redisClient, cfg.Generation.TranscriptCacheTTL)
		appLogger.Info("Transcript cache initialized")
	} else {
		appLogger.Info("Redis not configured, transcript caching disabled")
	}

	fetcher := media.NewYtdlpFetcher(cfg.Media)
	whisper := transcriber.NewWhisperEngine(cfg.Whisper)
	synthesizer := synthesis.NewLLMSynthesizer(llm, cfg.LLM)

	generationService := service.NewGenerationService(
		fetcher,
		whisper,
		synthesizer,
		transcriptCache,
		quizRepository,
		txManager,
		cfg.Generation.MaxConcurrent,
	)
	quizService := service.NewQuizService(quizRepository)

	authService, err := service.NewAuthService(userRepository, cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	quizHandler := handler.NewQuizHandler(generationService, quizService)
	authHandler := handler.NewAuthHandler(authService, cfg.JWT)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	apiGroup := app.Group("/api")

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", middleware.Protected(authService), authHandler.Logout)

	quizGroup := apiGroup.Group("/quizzes", middleware.Protected(authService))
	quizGroup.Post("/", quizHandler.CreateQuiz)
	quizGroup.Get("/", quizHandler.ListQuizzes)
	quizGroup.Get("/:id", quizHandler.GetQuiz)
	quizGroup.Put("/:id", quizHandler.UpdateQuiz)
	quizGroup.Patch("/:id", quizHandler.UpdateQuiz)
	quizGroup.Delete("/:id", quizHandler.DeleteQuiz)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
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
