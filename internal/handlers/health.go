package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Version is reported by the health endpoint
const Version = "1.0.0"

// statsProvider reports counters for the health payload
type statsProvider interface {
	GetStats() map[string]interface{}
}

// HealthHandler provides health check endpoint
type HealthHandler struct {
	logger   *slog.Logger
	products func() int
	images   statsProvider
}

// NewHealthHandler creates a new health handler. images may be nil.
func NewHealthHandler(logger *slog.Logger, products func() int, images statsProvider) *HealthHandler {
	return &HealthHandler{
		logger:   logger,
		products: products,
		images:   images,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Products  int                    `json:"products"`
	Images    map[string]interface{} `json:"images,omitempty"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   Version,
	}
	if h.products != nil {
		response.Products = h.products()
	}
	if h.images != nil {
		response.Images = h.images.GetStats()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode health response", "error", err)
	}
}
