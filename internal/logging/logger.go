package logging

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds the process-wide structured logger. Set LOG_MODE=dev for
// human-readable console output during local development.
func NewLogger(serviceName string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if os.Getenv("LOG_MODE") == "dev" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.InitialFields = map[string]interface{}{
		"service": serviceName,
	}

	return cfg.Build()
}
