package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lixing-Zhang/quick-catalog/internal/catalog"
	"github.com/Lixing-Zhang/quick-catalog/internal/repository"
)

func TestProductService_Catalog(t *testing.T) {
	stamp := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	repo := repository.NewInMemoryProductRepository(catalog.Generate(4))
	svc := NewProductService(repo).WithClock(func() time.Time { return stamp })

	got, err := svc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog() error = %v", err)
	}

	if got.Title != CatalogTitle {
		t.Errorf("title = %s, want %s", got.Title, CatalogTitle)
	}
	if len(got.Products) != 4 {
		t.Errorf("expected 4 products, got %d", len(got.Products))
	}
	if !got.GeneratedAt.Equal(stamp) {
		t.Errorf("generated at = %v, want %v", got.GeneratedAt, stamp)
	}
}

func TestProductService_GetProduct(t *testing.T) {
	svc := NewProductService(repository.NewInMemoryProductRepository(catalog.Generate(2)))

	p, err := svc.GetProduct(context.Background(), "2")
	if err != nil {
		t.Fatalf("GetProduct() error = %v", err)
	}
	if p.Name != "Produto 02" {
		t.Errorf("name = %s, want Produto 02", p.Name)
	}

	if _, err := svc.GetProduct(context.Background(), "3"); !errors.Is(err, repository.ErrProductNotFound) {
		t.Errorf("expected ErrProductNotFound, got %v", err)
	}

	if svc.CountProducts() != 2 {
		t.Errorf("CountProducts() = %d, want 2", svc.CountProducts())
	}
}
