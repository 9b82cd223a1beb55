package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge-backend/internal/config"
	"github.com/applyforge/applyforge-backend/internal/database"
	"github.com/applyforge/applyforge-backend/internal/handlers"
	"github.com/applyforge/applyforge-backend/internal/llm"
	"github.com/applyforge/applyforge-backend/internal/logger"
	"github.com/applyforge/applyforge-backend/internal/services"
	"github.com/applyforge/applyforge-backend/internal/storage"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	zl := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zl.Sync()

	// 2. Database Connection
	db, err := database.Connect(cfg.Database)
	if err != nil {
		zl.Fatal("failed to connect to database", zap.Error(err))
	}
	store := database.NewStore(db)

	// 3. Generation Backends & Gateway
	ctx := context.Background()
	gemini, err := llm.NewGeminiBackend(ctx, cfg.LLM.Gemini)
	if err != nil {
		zl.Fatal("failed to initialize gemini backend", zap.Error(err))
	}
	openAI, err := llm.NewOpenAIBackend(cfg.LLM.OpenAI)
	if err != nil {
		zl.Fatal("failed to initialize openai backend", zap.Error(err))
	}
	anthropicB, err := llm.NewAnthropicBackend(cfg.LLM.Anthropic)
	if err != nil {
		zl.Fatal("failed to initialize anthropic backend", zap.Error(err))
	}
	gateway := llm.NewGateway(cfg.LLM.DefaultBackend, zl, gemini, openAI, anthropicB)
	zl.Info("generation gateway ready", zap.Strings("available_backends", gateway.AvailableBackends()))

	// 4. File Storage
	files, err := storage.NewLocalStore(cfg.Storage.Dir)
	if err != nil {
		zl.Fatal("failed to initialize file storage", zap.Error(err))
	}

	// 5. Lifecycle Engine & Handlers
	appService := services.NewApplicationService(store, gateway, zl,
		time.Duration(cfg.LLM.TimeoutSeconds)*time.Second)
	appHandler := handlers.NewApplicationHandler(appService, files)

	// 6. Setup Router & CORS
	r := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true // For development only
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-User-ID"}
	r.Use(cors.New(corsConfig))

	// 7. Define Routes
	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		authed := api.Group("/", handlers.RequireUser())
		{
			authed.POST("/profile/professional-info", appHandler.ProfessionalInfo)
			// Legacy implicit-target routes from the single-application era.
			authed.PUT("/profile/job-description", appHandler.UpdateJobDescription)
			authed.POST("/profile/cv", appHandler.UploadCV)

			authed.POST("/applications", appHandler.CreateApplication)
			authed.PUT("/applications/:id/job-description", appHandler.UpdateJobDescription)
			authed.PUT("/applications/:id/activate", appHandler.SetActive)
			authed.POST("/applications/:id/cv", appHandler.UploadCV)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	zl.Info("server starting", zap.String("addr", addr))
	if err := r.Run(addr); err != nil {
		zl.Fatal("server failed to start", zap.Error(err))
	}
}
