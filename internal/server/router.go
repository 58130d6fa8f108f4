package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/handlers"
	"github.com/Lixing-Zhang/quick-catalog/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Handlers groups the HTTP handlers mounted by NewRouter
type Handlers struct {
	Health  *handlers.HealthHandler
	Catalog *handlers.CatalogHandler
	Product *handlers.ProductHandler
	PDF     *handlers.PDFHandler
}

// RouterConfig holds the router level settings
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// NewRouter builds the chi router with middleware and all routes
func NewRouter(cfg RouterConfig, h Handlers, log *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	if cfg.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	}

	// the catalog page may be served from another origin and fetch /pdf directly
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition", "X-Export-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health.ServeHTTP)
	r.Get("/", h.Catalog.ServeHTTP)

	r.Get("/pdf", h.PDF.ServePDF)
	r.Get("/pdf/raster", h.PDF.ServeRaster)

	r.Route("/api", func(r chi.Router) {
		r.Get("/product", h.Product.ListProducts)
		r.Get("/product/{productId}", h.Product.GetProduct)
	})

	return r
}
