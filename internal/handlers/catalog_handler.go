package handlers

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/quick-catalog/internal/models"
)

// catalogSource builds the catalog view model
type catalogSource interface {
	Catalog(ctx context.Context) (models.Catalog, error)
}

// catalogRenderer writes a rendered catalog, as HTML or PDF
type catalogRenderer interface {
	Render(ctx context.Context, w io.Writer, catalog models.Catalog) error
}

// CatalogHandler serves the catalog page
type CatalogHandler struct {
	source   catalogSource
	renderer catalogRenderer
	logger   *slog.Logger
}

// NewCatalogHandler creates a new catalog page handler
func NewCatalogHandler(source catalogSource, renderer catalogRenderer, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		source:   source,
		renderer: renderer,
		logger:   logger,
	}
}

// ServeHTTP handles GET /
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	catalog, err := h.source.Catalog(ctx)
	if err != nil {
		h.logger.Error("failed to build catalog", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Render(ctx, &buf, catalog); err != nil {
		h.logger.Error("failed to render catalog page", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write catalog page", "error", err)
	}
}
