package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/models"
	"github.com/google/uuid"
)

// rasterRenderer converts the catalog page into a PDF
type rasterRenderer interface {
	Render(ctx context.Context, w io.Writer, catalog models.Catalog) (int64, error)
}

// PDFHandler serves the catalog as a PDF document
type PDFHandler struct {
	source   catalogSource
	document catalogRenderer
	raster   rasterRenderer
	filename string
	logger   *slog.Logger
}

// NewPDFHandler creates a PDF handler. A nil raster disables GET /pdf/raster.
func NewPDFHandler(source catalogSource, document catalogRenderer, raster rasterRenderer, filename string, logger *slog.Logger) *PDFHandler {
	return &PDFHandler{
		source:   source,
		document: document,
		raster:   raster,
		filename: filename,
		logger:   logger,
	}
}

// ServePDF handles GET /pdf
// Responds inline so browsers display it; ?download=1 forces a download
func (h *PDFHandler) ServePDF(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "document", func(ctx context.Context, buf *bytes.Buffer, catalog models.Catalog) error {
		return h.document.Render(ctx, buf, catalog)
	})
}

// ServeRaster handles GET /pdf/raster
func (h *PDFHandler) ServeRaster(w http.ResponseWriter, r *http.Request) {
	if h.raster == nil {
		WriteError(w, http.StatusNotImplemented, "PDF rasterization is disabled", h.logger)
		return
	}
	h.serve(w, r, "raster", func(ctx context.Context, buf *bytes.Buffer, catalog models.Catalog) error {
		_, err := h.raster.Render(ctx, buf, catalog)
		return err
	})
}

func (h *PDFHandler) serve(w http.ResponseWriter, r *http.Request, mode string, render func(context.Context, *bytes.Buffer, models.Catalog) error) {
	ctx := r.Context()
	exportID := uuid.NewString()
	start := time.Now()

	catalog, err := h.source.Catalog(ctx)
	if err != nil {
		h.logger.Error("failed to build catalog", "export_id", exportID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.logger)
		return
	}

	var buf bytes.Buffer
	if err := render(ctx, &buf, catalog); err != nil {
		h.logger.Error("failed to render catalog pdf", "export_id", exportID, "mode", mode, "error", err)
		if errors.Is(err, context.DeadlineExceeded) {
			WriteError(w, http.StatusGatewayTimeout, "PDF generation timed out", h.logger)
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to generate PDF", h.logger)
		return
	}

	disposition := "inline"
	if isTruthy(r.URL.Query().Get("download")) {
		disposition = "attachment"
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, h.filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Export-ID", exportID)
	w.WriteHeader(http.StatusOK)

	if _, err := buf.WriteTo(w); err != nil {
		h.logger.Error("failed to write catalog pdf", "export_id", exportID, "error", err)
		return
	}

	h.logger.Info("catalog pdf generated",
		"export_id", exportID,
		"mode", mode,
		"products", len(catalog.Products),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

func isTruthy(value string) bool {
	v, err := strconv.ParseBool(value)
	return err == nil && v
}
