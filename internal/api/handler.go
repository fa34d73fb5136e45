package api

import (
	"presence-monitor-backend/internal/registry"
	"presence-monitor-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store     store.Store
	registry  *registry.Client
	zones     []string
	siteLabel string
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, reg *registry.Client, zones []string, siteLabel string) *Handler {
	return &Handler{
		store:     s,
		registry:  reg,
		zones:     zones,
		siteLabel: siteLabel,
	}
}
