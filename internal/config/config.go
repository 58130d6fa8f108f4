package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Catalog  CatalogConfig
	PDF      PDFConfig
	Raster   RasterConfig
	Export   ExportConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
	AllowedOrigins  []string
}

// CatalogConfig controls the synthetic product data generated at startup
type CatalogConfig struct {
	Size           int
	MinPrice       float64
	PriceSpan      float64
	ImageBaseURL   string // empty disables product images
	PrefetchImages bool
}

type PDFConfig struct {
	Filename   string
	PriceIndex bool
}

// RasterConfig configures the headless Chromium engine used for HTML to PDF rasterization
type RasterConfig struct {
	Enabled     bool
	BrowserPath string
	Timeout     time.Duration
	Scale       float64
	Margin      string
}

// ExportConfig is read by the export client
type ExportConfig struct {
	Endpoint  string
	OutputDir string
	Timeout   time.Duration
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "3001"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 60),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Catalog: CatalogConfig{
			Size:           getEnvAsInt("CATALOG_SIZE", 22),
			MinPrice:       getEnvAsFloat("CATALOG_MIN_PRICE", 20),
			PriceSpan:      getEnvAsFloat("CATALOG_PRICE_SPAN", 200),
			ImageBaseURL:   getEnv("CATALOG_IMAGE_BASE_URL", "https://picsum.photos/seed"),
			PrefetchImages: getEnvAsBool("CATALOG_PREFETCH_IMAGES", true),
		},
		PDF: PDFConfig{
			Filename:   getEnv("PDF_FILENAME", "catalogo.pdf"),
			PriceIndex: getEnvAsBool("PDF_PRICE_INDEX", false),
		},
		Raster: RasterConfig{
			Enabled:     getEnvAsBool("RASTER_ENABLED", false),
			BrowserPath: getEnv("CHROME_PATH", ""),
			Timeout:     time.Duration(getEnvAsInt("RASTER_TIMEOUT", 30)) * time.Second,
			Scale:       getEnvAsFloat("RASTER_SCALE", 1.0),
			Margin:      getEnv("RASTER_MARGIN", "10mm"),
		},
		Export: ExportConfig{
			Endpoint:  getEnv("EXPORT_ENDPOINT", "http://localhost:3001/pdf"),
			OutputDir: getEnv("EXPORT_OUTPUT_DIR", "."),
			Timeout:   time.Duration(getEnvAsInt("EXPORT_TIMEOUT", 60)) * time.Second,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Catalog.Size < 0 {
		return fmt.Errorf("CATALOG_SIZE must not be negative, got %d", c.Catalog.Size)
	}

	if c.Catalog.MinPrice < 0 || c.Catalog.PriceSpan < 0 {
		return fmt.Errorf("catalog prices must not be negative")
	}

	if strings.TrimSpace(c.PDF.Filename) == "" || !strings.HasSuffix(strings.ToLower(c.PDF.Filename), ".pdf") {
		return fmt.Errorf("PDF_FILENAME must end in .pdf, got %q", c.PDF.Filename)
	}

	if c.Raster.Scale < 0.1 || c.Raster.Scale > 2.0 {
		return fmt.Errorf("RASTER_SCALE must be between 0.1 and 2.0, got %v", c.Raster.Scale)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
