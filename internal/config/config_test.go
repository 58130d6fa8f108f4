package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "3001" {
		t.Errorf("port = %s, want 3001", cfg.Server.Port)
	}
	if cfg.Catalog.Size != 22 {
		t.Errorf("catalog size = %d, want 22", cfg.Catalog.Size)
	}
	if cfg.PDF.Filename != "catalogo.pdf" {
		t.Errorf("pdf filename = %s, want catalogo.pdf", cfg.PDF.Filename)
	}
	if cfg.Export.Endpoint != "http://localhost:3001/pdf" {
		t.Errorf("export endpoint = %s", cfg.Export.Endpoint)
	}
	if cfg.Raster.Enabled {
		t.Error("rasterization should be disabled by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CATALOG_SIZE", "5")
	t.Setenv("CATALOG_MIN_PRICE", "1.5")
	t.Setenv("RASTER_ENABLED", "true")
	t.Setenv("RASTER_TIMEOUT", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("port = %s, want 9090", cfg.Server.Port)
	}
	if cfg.Catalog.Size != 5 {
		t.Errorf("catalog size = %d, want 5", cfg.Catalog.Size)
	}
	if cfg.Catalog.MinPrice != 1.5 {
		t.Errorf("min price = %v, want 1.5", cfg.Catalog.MinPrice)
	}
	if !cfg.Raster.Enabled {
		t.Error("expected rasterization to be enabled")
	}
	if cfg.Raster.Timeout != 7*time.Second {
		t.Errorf("raster timeout = %v, want 7s", cfg.Raster.Timeout)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Errorf("allowed origins = %v, want 2 entries", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("CATALOG_SIZE", "lots")
	t.Setenv("RASTER_ENABLED", "maybe")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Catalog.Size != 22 {
		t.Errorf("catalog size = %d, want default 22", cfg.Catalog.Size)
	}
	if cfg.Raster.Enabled {
		t.Error("expected default for unparsable bool")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "3001"},
			Catalog:  CatalogConfig{Size: 22, MinPrice: 20, PriceSpan: 200},
			PDF:      PDFConfig{Filename: "catalogo.pdf"},
			Raster:   RasterConfig{Scale: 1},
			LogLevel: "info",
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty port", func(c *Config) { c.Server.Port = "" }, true},
		{"negative size", func(c *Config) { c.Catalog.Size = -1 }, true},
		{"zero size", func(c *Config) { c.Catalog.Size = 0 }, false},
		{"negative price", func(c *Config) { c.Catalog.MinPrice = -1 }, true},
		{"filename without extension", func(c *Config) { c.PDF.Filename = "catalogo" }, true},
		{"scale too large", func(c *Config) { c.Raster.Scale = 3 }, true},
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
