package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a single entry of the catalog.
// Instances are generated once at startup and never mutated.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
}

// HasImage reports whether the product carries an image URL
func (p Product) HasImage() bool {
	return p.Image != ""
}

// Catalog is the view model shared by the HTML and PDF renderers
type Catalog struct {
	Title       string
	IntroTitle  string
	IntroText   string
	Products    []Product
	GeneratedAt time.Time
}
