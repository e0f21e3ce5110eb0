// Package extraction provides the composition root for the phone number
// extraction pipeline.
package extraction

import (
	"phone_extraction_backend/internal/extraction/ports"
	"phone_extraction_backend/internal/extraction/service"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/logger"
)

// Module wires the extraction pipeline.
type Module struct {
	service *service.Service
}

// NewModule creates a new extraction module. The lookup port is injected by
// the host application and may be nil when external validation is disabled.
func NewModule(cfg config.ExtractionConfig, lookup ports.NumberLookup, log *logger.Logger) *Module {
	svc := service.New(cfg, lookup, log)
	return &Module{service: svc}
}

// Service returns the pipeline service.
func (m *Module) Service() *service.Service {
	return m.service
}
