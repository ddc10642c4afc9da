package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/clinsim/backend/internal/api/handlers"
	"github.com/clinsim/backend/internal/cache/redis"
	"github.com/clinsim/backend/internal/cases"
	"github.com/clinsim/backend/internal/evaluation"
	"github.com/clinsim/backend/internal/ingestion"
	"github.com/clinsim/backend/internal/interview"
	"github.com/clinsim/backend/internal/knowledge"
	"github.com/clinsim/backend/internal/llm"
	"github.com/clinsim/backend/internal/metrics"
	"github.com/clinsim/backend/internal/middleware/ratelimit"
	"github.com/clinsim/backend/internal/middleware/security"
	"github.com/clinsim/backend/internal/middleware/validation"
	"github.com/clinsim/backend/internal/storage/sqlite"
	"github.com/clinsim/backend/pkg/config"
	appLogger "github.com/clinsim/backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Clinical Interview Trainer API Server")

	metrics.Init()

	sqliteClient, err := sqlite.NewClient(cfg.SQLite.Path)
	if err != nil {
		appLogger.Fatal("Failed to create SQLite client", zap.Error(err))
	}
	defer sqliteClient.Close()

	if err := sqliteClient.InitSchema(); err != nil {
		appLogger.Fatal("Failed to initialize schema", zap.Error(err))
	}

	var cacheClient *redis.Client
	if cfg.Redis.Enabled {
		cacheClient, err = redis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer cacheClient.Close()
	}

	llmClient := llm.NewClient(
		cfg.LLM.APIKey,
		cfg.LLM.ChatModel,
		cfg.LLM.CaseGenModel,
		cfg.LLM.EvalModel,
		cfg.LLM.Temperature,
		cfg.LLM.MaxTokens,
		cfg.LLM.TimeoutSec,
	)

	caseStore := cases.NewStore(sqliteClient)
	caseGenerator := cases.NewGenerator(llmClient, caseStore)
	retriever := knowledge.NewRetriever(sqliteClient, cfg.Knowledge.MaxDocs, cfg.Knowledge.ExcerptChars)
	turnHandler := interview.NewHandler(llmClient)
	interviewService := interview.NewService(caseStore, retriever, turnHandler)

	var evalCache evaluation.ResultCache
	if cacheClient != nil {
		evalCache = cacheClient
	}
	evaluator := evaluation.NewEvaluator(llmClient, evalCache, sqliteClient, cfg.Redis.TTLSec)

	processor := ingestion.NewProcessor(sqliteClient, llmClient)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Session-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		IsDevelopment:  cfg.Server.Environment == "development",
	}))

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.Server.RateLimitPerMinute,
		Logger:               appLogger.Log,
	})
	defer limiter.Stop()

	sessionHandler := handlers.NewSessionHandler(caseGenerator, caseStore, evaluator, sqliteClient, cacheClient)
	chatHandler := handlers.NewChatHandler(interviewService)
	evaluationHandler := handlers.NewEvaluationHandler(evaluator)
	knowledgeHandler := handlers.NewKnowledgeHandler(processor, caseStore, sqliteClient, cacheClient)
	catalogHandler := handlers.NewCatalogHandler()
	wsHandler := handlers.NewWebSocketHandler(interviewService)

	api := app.Group("/api/v1")

	llmRoutes := api.Group("", limiter.Middleware(), validation.Middleware(validation.Config{
		MaxUploadSize: cfg.Server.BodyLimit,
		Logger:        appLogger.Log,
	}))
	llmRoutes.Post("/session/start", sessionHandler.StartSession)
	llmRoutes.Post("/session/finish", sessionHandler.FinishSession)
	llmRoutes.Post("/chat", chatHandler.HandleChat)
	llmRoutes.Post("/evaluate/soap", evaluationHandler.EvaluateSoap)

	api.Get("/catalog", catalogHandler.GetCatalog)

	admin := api.Group("/admin", limiter.Middleware())
	admin.Post("/knowledge", knowledgeHandler.UploadKnowledge)
	admin.Get("/knowledge", knowledgeHandler.ListKnowledge)
	admin.Post("/import", knowledgeHandler.ImportDocument)
	admin.Post("/cases", knowledgeHandler.SaveCase)

	api.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/ws/interview", websocket.New(wsHandler.HandleConnection))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
