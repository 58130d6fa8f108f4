package repository

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/quick-catalog/internal/models"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	GetAll(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Count() int
}

// InMemoryProductRepository implements ProductRepository with in-memory storage.
// It is read-only after construction, so no locking is needed.
type InMemoryProductRepository struct {
	products []models.Product
	index    map[string]int
}

// NewInMemoryProductRepository creates a repository holding products in display order
func NewInMemoryProductRepository(products []models.Product) *InMemoryProductRepository {
	stored := make([]models.Product, len(products))
	copy(stored, products)

	index := make(map[string]int, len(stored))
	for i, p := range stored {
		index[p.ID] = i
	}

	return &InMemoryProductRepository{
		products: stored,
		index:    index,
	}
}

// GetAll returns all products in display order
func (r *InMemoryProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	products := make([]models.Product, len(r.products))
	copy(products, r.products)
	return products, nil
}

// GetByID returns a product by its ID
func (r *InMemoryProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	i, exists := r.index[id]
	if !exists {
		return nil, ErrProductNotFound
	}
	product := r.products[i]
	return &product, nil
}

func (r *InMemoryProductRepository) Count() int {
	return len(r.products)
}
