package main

import (
	"fmt"
	"log"
	"time"

	"meter-reading-backend/internal/config"
	"meter-reading-backend/internal/events"
	"meter-reading-backend/internal/logging"
	"meter-reading-backend/internal/models"
	"meter-reading-backend/internal/routes"
	service "meter-reading-backend/internal/services/measurement"
	"meter-reading-backend/internal/storage"
	"meter-reading-backend/internal/vision"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.NewLogger(cfg.ServiceName)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.InitDB(cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	if err := db.AutoMigrate(
		&models.Customer{},
		&models.Measurement{},
	); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	reader, err := vision.NewGeminiReader(cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		logger.Fatal("gemini reader init failed", zap.Error(err))
	}
	defer reader.Close()

	images, err := storage.NewMinioStore(cfg.Minio)
	if err != nil {
		logger.Fatal("image store init failed", zap.Error(err))
	}

	// Event publishing is optional: without a broker URL the workflow simply
	// skips publishing.
	var publisher service.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		p, err := events.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
		if err != nil {
			logger.Fatal("event publisher init failed", zap.Error(err))
		}
		defer p.Close()
		publisher = p
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, reader, images, publisher, logger)

	logger.Info("starting server", zap.Int("port", cfg.ServicePort))
	if err := r.Run(fmt.Sprintf(":%d", cfg.ServicePort)); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
