package handlers

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"meter-reading-backend/internal/models"
	service "meter-reading-backend/internal/services/measurement"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MeasurementHandler struct {
	service *service.Service
	logger  *zap.Logger
}

func NewMeasurementHandler(s *service.Service, logger *zap.Logger) *MeasurementHandler {
	return &MeasurementHandler{service: s, logger: logger}
}

type uploadRequest struct {
	Image           string `json:"image" binding:"required"`
	CustomerCode    string `json:"customer_code" binding:"required"`
	MeasureDatetime string `json:"measure_datetime" binding:"required"`
	MeasureType     string `json:"measure_type" binding:"required"`
}

type confirmRequest struct {
	MeasureUUID    string   `json:"measure_uuid" binding:"required"`
	ConfirmedValue *float64 `json:"confirmed_value" binding:"required"`
}

// Upload handles POST /measurement/upload
func (h *MeasurementHandler) Upload(c *gin.Context) {
	var req uploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidData(c, "Validation failed: "+err.Error())
		return
	}

	if _, ok := models.ParseMeasurementType(req.MeasureType); !ok {
		invalidData(c, "The measure_type must be WATER or GAS")
		return
	}

	datetime, err := time.Parse(time.RFC3339, req.MeasureDatetime)
	if err != nil {
		invalidData(c, "The measure_datetime must be a valid ISO-8601 timestamp")
		return
	}

	image, err := decodeImage(req.Image)
	if err != nil {
		invalidData(c, "The image field must be valid base64")
		return
	}

	result, err := h.service.Upload(c.Request.Context(), service.UploadInput{
		Image:        image,
		CustomerCode: req.CustomerCode,
		Datetime:     datetime,
		Type:         req.MeasureType,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"image_url":     result.ImageURL,
		"measure_value": result.Value,
		"measure_uuid":  result.MeasureID.String(),
	})
}

// Confirm handles PATCH /measurement/confirm
func (h *MeasurementHandler) Confirm(c *gin.Context) {
	var req confirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidData(c, "Validation failed: "+err.Error())
		return
	}

	measureID, err := uuid.Parse(req.MeasureUUID)
	if err != nil {
		invalidData(c, "The measure_uuid must be a valid UUID")
		return
	}

	if err := h.service.Confirm(c.Request.Context(), measureID, *req.ConfirmedValue); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// List handles GET /measurement/:customer_code/list
func (h *MeasurementHandler) List(c *gin.Context) {
	customerCode := c.Param("customer_code")
	measureType := c.Query("measure_type")

	measurements, err := h.service.List(c.Request.Context(), customerCode, measureType)
	if err != nil {
		h.respondError(c, err)
		return
	}

	measures := make([]gin.H, 0, len(measurements))
	for _, m := range measurements {
		measures = append(measures, gin.H{
			"measure_uuid":     m.ID.String(),
			"measure_datetime": m.Datetime,
			"measure_type":     m.Type,
			"measure_value":    m.Value,
			"has_confirmed":    m.Confirmed,
			"image_url":        m.ImageURL,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"customer_code": customerCode,
		"measures":      measures,
	})
}

// respondError renders domain errors with their contract status and code.
// Anything else is an infrastructure failure: logged in full, reported as an
// opaque 500.
func (h *MeasurementHandler) respondError(c *gin.Context, err error) {
	var domainErr *service.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(domainErr.Status, gin.H{
			"error_code":        domainErr.Code,
			"error_description": domainErr.Description,
		})
		return
	}

	h.logger.Error("measurement request failed",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"error_code":        "INTERNAL_SERVER_ERROR",
		"error_description": "An error occurred while processing the measurement",
	})
}

func invalidData(c *gin.Context, description string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error_code":        "INVALID_DATA",
		"error_description": description,
	})
}

// decodeImage accepts plain base64 as well as data-URI payloads
// (data:image/jpeg;base64,...) as sent by browser clients.
func decodeImage(s string) ([]byte, error) {
	if idx := strings.Index(s, ","); idx != -1 && strings.HasPrefix(s, "data:") {
		s = s[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("empty image payload")
	}
	return data, nil
}
