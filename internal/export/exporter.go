// Package export implements the two catalog export actions: downloading the
// pre-rendered PDF from the server and rasterizing the catalog locally.
package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/models"
)

// DefaultFilename is the name of every downloaded catalog
const DefaultFilename = "catalogo.pdf"

// MaxPDFBytes caps the size of a downloaded catalog
const MaxPDFBytes = 64 << 20

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNotPDF           = errors.New("response is not a pdf document")
	ErrTooLarge         = errors.New("pdf exceeds size limit")
)

var pdfMagic = []byte("%PDF")

// Result describes a completed export
type Result struct {
	Path     string
	Bytes    int64
	ExportID string
}

// RemoteExporter downloads the pre-rendered catalog from the server endpoint
type RemoteExporter struct {
	Endpoint string
	Filename string
	client   *http.Client
	logger   *slog.Logger
}

// NewRemoteExporter creates an exporter for endpoint. A nil client gets a default with timeout.
func NewRemoteExporter(endpoint string, client *http.Client, logger *slog.Logger) *RemoteExporter {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RemoteExporter{
		Endpoint: endpoint,
		Filename: DefaultFilename,
		client:   client,
		logger:   logger,
	}
}

// ViewURL is the address the "view" action opens
func (e *RemoteExporter) ViewURL() string {
	return e.Endpoint
}

// Export fetches the catalog PDF and saves it in dir.
// Nothing is written unless the server answers 200 with a PDF body.
func (e *RemoteExporter) Export(ctx context.Context, dir string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.Endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/pdf")

	resp, err := e.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to request catalog pdf: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxPDFBytes+1))
	if err != nil {
		return Result{}, fmt.Errorf("failed to read catalog pdf: %w", err)
	}
	if len(data) > MaxPDFBytes {
		return Result{}, ErrTooLarge
	}

	path, err := savePDF(dir, e.filename(), data)
	if err != nil {
		return Result{}, err
	}

	result := Result{Path: path, Bytes: int64(len(data)), ExportID: resp.Header.Get("X-Export-ID")}
	e.logger.Info("catalog exported",
		"source", "remote",
		"endpoint", e.Endpoint,
		"path", result.Path,
		"bytes", result.Bytes,
		"export_id", result.ExportID,
	)
	return result, nil
}

func (e *RemoteExporter) filename() string {
	if e.Filename == "" {
		return DefaultFilename
	}
	return e.Filename
}

// CatalogRenderer produces a catalog PDF, e.g. catalogpdf.Rasterizer
type CatalogRenderer interface {
	Render(ctx context.Context, w io.Writer, catalog models.Catalog) (int64, error)
}

// LocalExporter rasterizes the catalog in-process
type LocalExporter struct {
	Renderer CatalogRenderer
	Filename string
	logger   *slog.Logger
}

// NewLocalExporter creates an exporter that rasterizes with renderer
func NewLocalExporter(renderer CatalogRenderer, logger *slog.Logger) *LocalExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalExporter{
		Renderer: renderer,
		Filename: DefaultFilename,
		logger:   logger,
	}
}

// Export renders catalog and saves the PDF in dir
func (e *LocalExporter) Export(ctx context.Context, dir string, catalog models.Catalog) (Result, error) {
	var buf bytes.Buffer
	if _, err := e.Renderer.Render(ctx, &buf, catalog); err != nil {
		return Result{}, fmt.Errorf("failed to rasterize catalog: %w", err)
	}

	filename := e.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	path, err := savePDF(dir, filename, buf.Bytes())
	if err != nil {
		return Result{}, err
	}

	result := Result{Path: path, Bytes: int64(buf.Len())}
	e.logger.Info("catalog exported",
		"source", "local",
		"path", result.Path,
		"bytes", result.Bytes,
		"products", len(catalog.Products),
	)
	return result, nil
}

// savePDF writes data to dir/filename through a temp file so a failed write
// never leaves a partial catalog behind
func savePDF(dir, filename string, data []byte) (string, error) {
	if !bytes.HasPrefix(data, pdfMagic) {
		return "", ErrNotPDF
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".catalog-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to set pdf permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to save pdf: %w", err)
	}
	return path, nil
}
