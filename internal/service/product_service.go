package service

import (
	"context"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/models"
	"github.com/Lixing-Zhang/quick-catalog/internal/repository"
)

const (
	CatalogTitle      = "Catálogo Rápido"
	CatalogIntroTitle = "Coleção em destaque"
	CatalogIntroText  = "Uma seleção de produtos para mostrar como o catálogo funciona."
)

// ProductService handles business logic for products
type ProductService struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
		now:  time.Now,
	}
}

// WithClock replaces the clock used to stamp rendered catalogs
func (s *ProductService) WithClock(now func() time.Time) *ProductService {
	s.now = now
	return s
}

// ListProducts returns all available products in display order
func (s *ProductService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.repo.GetAll(ctx)
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// CountProducts returns the catalog size
func (s *ProductService) CountProducts() int {
	return s.repo.Count()
}

// Catalog assembles the view model rendered by the HTML page and the PDF documents
func (s *ProductService) Catalog(ctx context.Context) (models.Catalog, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return models.Catalog{}, err
	}

	return models.Catalog{
		Title:       CatalogTitle,
		IntroTitle:  CatalogIntroTitle,
		IntroText:   CatalogIntroText,
		Products:    products,
		GeneratedAt: s.now(),
	}, nil
}
