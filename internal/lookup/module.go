package lookup

import (
	"phone_extraction_backend/internal/lookup/client"
	"phone_extraction_backend/platform/config"
	"phone_extraction_backend/platform/logger"
)

// Module wires the number lookup client.
type Module struct {
	client *client.Client
}

func NewModule(cfg config.LookupConfig, log *logger.Logger) *Module {
	return &Module{client: client.New(cfg, log)}
}

// Client returns the lookup client implementing ports.NumberLookup.
func (m *Module) Client() *client.Client {
	return m.client
}
