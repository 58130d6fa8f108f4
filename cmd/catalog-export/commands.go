package main

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"runtime"

	"github.com/Lixing-Zhang/quick-catalog/internal/catalog"
	"github.com/Lixing-Zhang/quick-catalog/internal/export"
	catalogpdf "github.com/Lixing-Zhang/quick-catalog/internal/pdf"
	"github.com/Lixing-Zhang/quick-catalog/internal/render"
	"github.com/Lixing-Zhang/quick-catalog/internal/repository"
	"github.com/Lixing-Zhang/quick-catalog/internal/service"
)

// RemoteCmd downloads GET /pdf and saves it as catalogo.pdf
type RemoteCmd struct {
	Endpoint string `help:"PDF endpoint URL." default:"${endpoint}"`
	Out      string `help:"Directory the PDF is saved in." default:"${output_dir}" type:"path"`
}

func (c *RemoteCmd) Run(g *Globals) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.Config.Export.Timeout)
	defer cancel()

	exporter := export.NewRemoteExporter(c.Endpoint, &http.Client{Timeout: g.Config.Export.Timeout}, g.Logger)
	result, err := exporter.Export(ctx, c.Out)
	if err != nil {
		return err
	}

	fmt.Println(result.Path)
	return nil
}

// ViewCmd opens the PDF endpoint so the browser displays it inline
type ViewCmd struct {
	Endpoint string `help:"PDF endpoint URL." default:"${endpoint}"`
	Print    bool   `help:"Only print the URL instead of opening it."`
}

func (c *ViewCmd) Run(g *Globals) error {
	url := export.NewRemoteExporter(c.Endpoint, nil, g.Logger).ViewURL()
	if c.Print {
		fmt.Println(url)
		return nil
	}

	name, args := openCommand(runtime.GOOS, url)
	if err := exec.Command(name, args...).Start(); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	g.Logger.Info("opened catalog pdf", "url", url)
	return nil
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// LocalCmd renders the catalog page and rasterizes it with headless Chromium
type LocalCmd struct {
	Count int    `help:"Number of products in the catalog." default:"${count}"`
	Out   string `help:"Directory the PDF is saved in." default:"${output_dir}" type:"path"`
}

func (c *LocalCmd) Run(g *Globals) error {
	cfg := g.Config
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", c.Count)
	}

	products := catalog.Generate(c.Count,
		catalog.WithPriceRange(cfg.Catalog.MinPrice, cfg.Catalog.PriceSpan),
		catalog.WithImageBaseURL(cfg.Catalog.ImageBaseURL),
	)
	svc := service.NewProductService(repository.NewInMemoryProductRepository(products))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Export.Timeout)
	defer cancel()

	cat, err := svc.Catalog(ctx)
	if err != nil {
		return err
	}

	// the local page has no server behind it, so its links point at the output file
	page, err := render.NewHTMLRenderer(cfg.PDF.Filename, cfg.PDF.Filename)
	if err != nil {
		return err
	}

	engine := catalogpdf.NewRasterEngine(cfg.Raster.BrowserPath, cfg.Raster.Timeout)
	engine.Options.Scale = cfg.Raster.Scale
	engine.Options.Margin = cfg.Raster.Margin
	defer engine.Close()

	exporter := export.NewLocalExporter(catalogpdf.Rasterizer{HTML: page, Engine: engine}, g.Logger)
	result, err := exporter.Export(ctx, c.Out, cat)
	if err != nil {
		return err
	}

	fmt.Println(result.Path)
	return nil
}
