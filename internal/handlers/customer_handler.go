package handlers

import (
	"errors"
	"net/http"
	"time"

	"meter-reading-backend/internal/models"
	"meter-reading-backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CustomerWriter persists new customers.
type CustomerWriter interface {
	Create(customer *models.Customer) error
}

// CustomerHandler carries the small admin surface for registering customers.
// Customers are normally provisioned upstream; this exists so the service is
// operable on its own.
type CustomerHandler struct {
	customers CustomerWriter
	logger    *zap.Logger
}

func NewCustomerHandler(customers CustomerWriter, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, logger: logger}
}

type createCustomerRequest struct {
	CustomerCode string `json:"customer_code"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email"`
}

// Create handles POST /customer
func (h *CustomerHandler) Create(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidData(c, "Validation failed: "+err.Error())
		return
	}

	code := req.CustomerCode
	if code == "" {
		code = uuid.New().String()
	}

	customer := &models.Customer{
		ID:        code,
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now(),
	}

	if err := h.customers.Create(customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{
				"error_code":        "CUSTOMER_EXISTS",
				"error_description": "Customer with code " + code + " already exists",
			})
			return
		}
		h.logger.Error("failed to create customer", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error_code":        "INTERNAL_SERVER_ERROR",
			"error_description": "An error occurred while creating the customer",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer_code": customer.ID})
}
