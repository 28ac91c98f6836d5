package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/bizfit-api/internal/ai"
	"github.com/yourusername/bizfit-api/internal/catalog"
	"github.com/yourusername/bizfit-api/internal/config"
	"github.com/yourusername/bizfit-api/internal/handler"
	"github.com/yourusername/bizfit-api/internal/middleware"
	pgRepo "github.com/yourusername/bizfit-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/bizfit-api/internal/repository/redis"
	"github.com/yourusername/bizfit-api/internal/service"
	"github.com/yourusername/bizfit-api/internal/service/scoring"
	"github.com/yourusername/bizfit-api/internal/ws"
	"github.com/yourusername/bizfit-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Подключение к PostgreSQL и миграции
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}

	// Репозитории
	attemptRepo := pgRepo.NewQuizAttemptRepo(db)
	contentRepo := pgRepo.NewAIContentRepo(db)
	modelRepo := pgRepo.NewBusinessModelRepo(db)
	unlockRepo := pgRepo.NewReportUnlockRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to create cache repository: %v", err)
		os.Exit(1)
	}

	// Справочник бизнес-моделей: из БД, со встроенным набором на случай
	// пустой таблицы
	cat := catalog.Load(modelRepo)

	// LLM-клиент. Отсутствие ключа переводит систему в режим только
	// алгоритмического анализа, это решение принимается здесь один раз.
	var chatClient ai.ChatClient
	if cfg.AI.APIKey != "" {
		client, err := ai.NewClient(ai.Config{
			APIKey:     cfg.AI.APIKey,
			BaseURL:    cfg.AI.BaseURL,
			Model:      cfg.AI.Model,
			TimeoutSec: cfg.AI.TimeoutSec,
		})
		if err != nil {
			log.Printf("Failed to create LLM client: %v", err)
			os.Exit(1)
		}
		chatClient = client
	}

	// Лимитер исходящих запросов к LLM, общий для анализа и генерации
	// контента
	llmLimiter := scoring.NewRateLimiter(scoring.RateLimiterConfig{
		MaxRequests:     cfg.AI.RateLimitRequests,
		Window:          time.Duration(cfg.AI.RateLimitWindowSec) * time.Second,
		MaxWait:         time.Duration(cfg.AI.RateLimitMaxWaitSec) * time.Second,
		CleanupInterval: 30 * time.Second,
	})
	defer llmLimiter.Stop()

	// WebSocket hub для событий готовности контента
	hub := ws.NewHub()
	go hub.Run()
	defer hub.Stop()

	// Сервисы
	calculator := scoring.NewFitCalculator(scoring.DefaultFitWeights(), cat)
	scoringService := scoring.NewService(chatClient, llmLimiter, calculator, cat, scoring.ServiceConfig{
		MaxTokens:   cfg.AI.MaxTokens,
		Temperature: cfg.AI.Temperature,
		CallTimeout: time.Duration(cfg.AI.TimeoutSec) * time.Second,
	})
	contentService := service.NewAIContentService(
		chatClient, llmLimiter, scoringService,
		contentRepo, attemptRepo, unlockRepo, cacheRepo,
		cat, hub, service.DefaultAIContentConfig(),
	)
	attemptService := service.NewQuizAttemptService(attemptRepo, contentService, scoringService)
	paymentService := service.NewPaymentService(unlockRepo, attemptRepo)

	allowedOrigins := cfg.CORS.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	// Обработчики
	attemptHandler := handler.NewQuizAttemptHandler(attemptService, contentService)
	modelHandler := handler.NewBusinessModelHandler(cat)
	paymentHandler := handler.NewPaymentHandler(paymentService, cfg.Payments.WebhookSecret)
	adminHandler := handler.NewAdminHandler(attemptService)
	wsHandler := handler.NewWSHandler(hub, allowedOrigins)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	// HTTP router
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
		log.Printf("Failed to set trusted proxies: %v", err)
		os.Exit(1)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Маршруты API
	api := router.Group("/api")
	api.Use(rateLimiter.Limit(middleware.DefaultAPIRateLimitConfig()))
	{
		attempts := api.Group("/quiz-attempts")
		attempts.Use(authMiddleware.OptionalAuth())
		{
			attempts.POST("", attemptHandler.SubmitAttempt)

			byID := attempts.Group("/:id")
			byID.Use(middleware.ExtractUUIDParam("id", "attemptID"))
			{
				byID.GET("", attemptHandler.GetAttempt)
				byID.GET("/scores", attemptHandler.GetScores)

				generation := byID.Group("")
				generation.Use(rateLimiter.Limit(middleware.GenerationRateLimitConfig()))
				{
					generation.POST("/analysis", attemptHandler.GenerateAnalysis)
					generation.POST("/content/:type", attemptHandler.GenerateContent)
				}
			}
		}

		models := api.Group("/business-models")
		{
			models.GET("", modelHandler.ListModels)
			models.GET("/:id", modelHandler.GetModel)
		}

		api.POST("/payments/webhook", paymentHandler.Webhook)

		admin := api.Group("/admin")
		admin.Use(authMiddleware.RequireAuth(), authMiddleware.AdminOnly())
		{
			admin.GET("/attempts", adminHandler.ListAttempts)
			admin.GET("/attempts/export", adminHandler.ExportAttempts)
		}
	}

	router.GET("/ws", wsHandler.HandleConnection)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
