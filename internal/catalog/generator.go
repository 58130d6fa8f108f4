// Package catalog generates the synthetic product data shown in the catalog.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/quick-catalog/internal/models"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCount is the number of products generated when none is configured
	DefaultCount = 22

	DefaultMinPrice     = 20.0
	DefaultPriceSpan    = 200.0
	DefaultImageBaseURL = "https://picsum.photos/seed"
	DefaultDescription  = "Descrição curta do produto — material, uso e destaque."
)

type generatorConfig struct {
	rnd          *rand.Rand
	minPrice     float64
	priceSpan    float64
	imageBaseURL string
	description  string
}

// Option configures Generate
type Option func(*generatorConfig)

// WithRand sets the random source used for prices
func WithRand(r *rand.Rand) Option {
	return func(c *generatorConfig) {
		c.rnd = r
	}
}

// WithPriceRange sets the price interval to [min, min+span].
// Negative values are clamped to zero.
func WithPriceRange(min, span float64) Option {
	return func(c *generatorConfig) {
		c.minPrice = max(min, 0)
		c.priceSpan = max(span, 0)
	}
}

// WithImageBaseURL sets the placeholder image host. An empty base disables images.
func WithImageBaseURL(base string) Option {
	return func(c *generatorConfig) {
		c.imageBaseURL = strings.TrimRight(base, "/")
	}
}

// WithDescription replaces the fixed product description
func WithDescription(description string) Option {
	return func(c *generatorConfig) {
		c.description = description
	}
}

// Generate returns n products in display order with sequential ids and names,
// a fixed description, a random price rounded to two decimals and an image URL
// derived from the product index.
func Generate(n int, opts ...Option) []models.Product {
	cfg := &generatorConfig{
		minPrice:     DefaultMinPrice,
		priceSpan:    DefaultPriceSpan,
		imageBaseURL: DefaultImageBaseURL,
		description:  DefaultDescription,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.rnd == nil {
		cfg.rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	if n <= 0 {
		return []models.Product{}
	}

	products := make([]models.Product, 0, n)
	for i := 1; i <= n; i++ {
		products = append(products, models.Product{
			ID:          strconv.Itoa(i),
			Name:        fmt.Sprintf("Produto %02d", i),
			Description: cfg.description,
			Price:       randomPrice(cfg.rnd, cfg.minPrice, cfg.priceSpan),
			Image:       ImageURL(cfg.imageBaseURL, i),
		})
	}

	return products
}

// ImageURL returns the placeholder image for the product at the 1-based index
func ImageURL(base string, index int) string {
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/catalog%d/600/400", strings.TrimRight(base, "/"), index)
}

func randomPrice(r *rand.Rand, min, span float64) decimal.Decimal {
	return decimal.NewFromFloat(r.Float64()*span + min).Round(2)
}
