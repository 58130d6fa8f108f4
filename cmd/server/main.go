package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/catalog"
	"github.com/Lixing-Zhang/quick-catalog/internal/config"
	"github.com/Lixing-Zhang/quick-catalog/internal/handlers"
	"github.com/Lixing-Zhang/quick-catalog/internal/images"
	"github.com/Lixing-Zhang/quick-catalog/internal/models"
	catalogpdf "github.com/Lixing-Zhang/quick-catalog/internal/pdf"
	"github.com/Lixing-Zhang/quick-catalog/internal/render"
	"github.com/Lixing-Zhang/quick-catalog/internal/repository"
	"github.com/Lixing-Zhang/quick-catalog/internal/server"
	"github.com/Lixing-Zhang/quick-catalog/internal/service"
	"github.com/Lixing-Zhang/quick-catalog/pkg/logger"
)

const imagePrefetchTimeout = 30 * time.Second

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting catalog server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"log_level", cfg.LogLevel,
		"raster_enabled", cfg.Raster.Enabled,
	)

	// Generate the static catalog
	products := catalog.Generate(cfg.Catalog.Size,
		catalog.WithPriceRange(cfg.Catalog.MinPrice, cfg.Catalog.PriceSpan),
		catalog.WithImageBaseURL(cfg.Catalog.ImageBaseURL),
	)

	// Download product images for the PDF document
	fetcher := images.NewFetcher(nil, log)
	if cfg.Catalog.PrefetchImages {
		prefetchImages(fetcher, products, log)
	}

	// Initialize repositories
	productRepo := repository.NewInMemoryProductRepository(products)

	// Initialize services
	productService := service.NewProductService(productRepo)

	// Initialize renderers
	page, err := render.NewHTMLRenderer("/pdf", cfg.PDF.Filename)
	if err != nil {
		log.Error("failed to parse catalog template", "error", err)
		os.Exit(1)
	}
	document := catalogpdf.DocumentRenderer{
		Images:     fetcher,
		PriceIndex: cfg.PDF.PriceIndex,
	}

	// Initialize handlers
	var pdfHandler *handlers.PDFHandler
	if cfg.Raster.Enabled {
		engine := catalogpdf.NewRasterEngine(cfg.Raster.BrowserPath, cfg.Raster.Timeout)
		engine.Options.Scale = cfg.Raster.Scale
		engine.Options.Margin = cfg.Raster.Margin
		defer engine.Close()

		rasterizer := catalogpdf.Rasterizer{HTML: page, Engine: engine}
		pdfHandler = handlers.NewPDFHandler(productService, document, rasterizer, cfg.PDF.Filename, log)
	} else {
		pdfHandler = handlers.NewPDFHandler(productService, document, nil, cfg.PDF.Filename, log)
	}

	h := server.Handlers{
		Health:  handlers.NewHealthHandler(log, productService.CountProducts, fetcher),
		Catalog: handlers.NewCatalogHandler(productService, page, log),
		Product: handlers.NewProductHandler(productService, log),
		PDF:     pdfHandler,
	}

	// Create router
	r := server.NewRouter(server.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}, h, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		return
	}

	log.Info("server stopped gracefully")
}

// prefetchImages loads product images up front; products without a
// downloaded image are drawn with a placeholder.
func prefetchImages(fetcher *images.Fetcher, products []models.Product, log *slog.Logger) {
	urls := make([]string, 0, len(products))
	for _, p := range products {
		if p.HasImage() {
			urls = append(urls, p.Image)
		}
	}
	if len(urls) == 0 {
		return
	}

	log.Info("loading product images...", "count", len(urls))
	ctx, cancel := context.WithTimeout(context.Background(), imagePrefetchTimeout)
	defer cancel()

	if err := fetcher.LoadFromURLs(ctx, urls); err != nil {
		log.Warn("image prefetch incomplete", "error", err)
	}

	stats := fetcher.GetStats()
	log.Info("product images loaded",
		"loaded", stats["loaded"],
		"failed", stats["failed"],
	)
}
