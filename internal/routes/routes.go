package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	handler "meter-reading-backend/internal/handlers"
	"meter-reading-backend/internal/repository"
	service "meter-reading-backend/internal/services/measurement"
)

// RegisterRoutes wires the repositories, workflow and handlers together and
// attaches them to the engine. The vision reader, image store and event
// publisher are constructed once in main and passed in by reference.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	reader service.VisionReader,
	images service.ImageStore,
	publisher service.EventPublisher,
	logger *zap.Logger,
) {
	customerRepo := repository.NewCustomerRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)

	measurementService := service.NewService(
		customerRepo,
		measurementRepo,
		reader,
		images,
		publisher,
		logger,
	)

	measurementHandler := handler.NewMeasurementHandler(measurementService, logger)
	customerHandler := handler.NewCustomerHandler(customerRepo, logger)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Measurement workflow routes
	m := r.Group("/measurement")
	m.POST("/upload", measurementHandler.Upload)
	m.PATCH("/confirm", measurementHandler.Confirm)
	m.GET("/:customer_code/list", measurementHandler.List)

	// Customer admin routes
	r.POST("/customer", customerHandler.Create)
}
