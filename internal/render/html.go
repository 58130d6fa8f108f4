// Package render turns a catalog into markup and shared display strings.
package render

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/models"
	"github.com/flosch/pongo2/v6"
	"github.com/shopspring/decimal"
)

//go:embed templates/catalog.html
var catalogTemplate []byte

const (
	DefaultPDFURL   = "/pdf"
	DefaultFilename = "catalogo.pdf"

	// TimestampLayout is the pt-BR style used for the "Gerado em" footer
	TimestampLayout = "02/01/2006 15:04:05"
)

// HTMLRenderer renders the catalog page
type HTMLRenderer struct {
	// PDFURL is the endpoint the page buttons point at
	PDFURL   string
	Filename string
	Location *time.Location

	tpl *pongo2.Template
}

// cardView is the per-product data handed to the template
type cardView struct {
	ID          string
	Name        string
	Description string
	Price       string
	Image       string
}

// NewHTMLRenderer parses the embedded catalog template
func NewHTMLRenderer(pdfURL, filename string) (*HTMLRenderer, error) {
	tpl, err := pongo2.FromBytes(catalogTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog template: %w", err)
	}
	if pdfURL == "" {
		pdfURL = DefaultPDFURL
	}
	if filename == "" {
		filename = DefaultFilename
	}
	return &HTMLRenderer{
		PDFURL:   pdfURL,
		Filename: filename,
		tpl:      tpl,
	}, nil
}

// Render writes the catalog page to w, one card per product in catalog order
func (r *HTMLRenderer) Render(ctx context.Context, w io.Writer, catalog models.Catalog) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cards := make([]cardView, 0, len(catalog.Products))
	for _, p := range catalog.Products {
		cards = append(cards, cardView{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       FormatPrice(p.Price),
			Image:       p.Image,
		})
	}

	data := pongo2.Context{
		"title":        catalog.Title,
		"intro_title":  catalog.IntroTitle,
		"intro_text":   catalog.IntroText,
		"products":     cards,
		"generated_at": FormatTimestamp(catalog.GeneratedAt, r.Location),
		"pdf_url":      r.PDFURL,
		"download_url": r.PDFURL + "?download=1",
		"filename":     r.Filename,
	}

	if err := r.tpl.ExecuteWriter(data, w); err != nil {
		return fmt.Errorf("failed to render catalog page: %w", err)
	}
	return nil
}

// FormatPrice renders a price as Brazilian reais with two decimals
func FormatPrice(price decimal.Decimal) string {
	return "R$ " + price.StringFixed(2)
}

// FormatTimestamp renders t in loc, or in t's own location when loc is nil
func FormatTimestamp(t time.Time, loc *time.Location) string {
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format(TimestampLayout)
}
