package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lixing-Zhang/quick-catalog/internal/catalog"
	"github.com/Lixing-Zhang/quick-catalog/internal/models"
	"github.com/Lixing-Zhang/quick-catalog/internal/repository"
	"github.com/Lixing-Zhang/quick-catalog/internal/service"
	"github.com/Lixing-Zhang/quick-catalog/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func newTestProductHandler(n int) *ProductHandler {
	repo := repository.NewInMemoryProductRepository(catalog.Generate(n))
	svc := service.NewProductService(repo)
	return NewProductHandler(svc, logger.New("error"))
}

func TestListProducts(t *testing.T) {
	handler := newTestProductHandler(catalog.DefaultCount)

	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	w := httptest.NewRecorder()

	handler.ListProducts(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var products []models.Product
	if err := json.NewDecoder(w.Body).Decode(&products); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(products) != catalog.DefaultCount {
		t.Fatalf("expected %d products, got %d", catalog.DefaultCount, len(products))
	}

	// products come back in display order
	for i, p := range products {
		if want := fmt.Sprintf("Produto %02d", i+1); p.Name != want {
			t.Errorf("position %d: unexpected product %s", i, p.Name)
		}
	}
}

func TestGetProduct_Success(t *testing.T) {
	handler := newTestProductHandler(10)

	r := chi.NewRouter()
	r.Get("/api/product/{productId}", handler.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/api/product/1", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var product models.Product
	if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if product.ID != "1" {
		t.Errorf("expected product ID 1, got %s", product.ID)
	}

	if product.Name != "Produto 01" {
		t.Errorf("expected product name 'Produto 01', got %s", product.Name)
	}

	if product.Price.IsNegative() {
		t.Errorf("expected non-negative price, got %s", product.Price)
	}

	if product.Image != "https://picsum.photos/seed/catalog1/600/400" {
		t.Errorf("unexpected image %s", product.Image)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	handler := newTestProductHandler(10)

	r := chi.NewRouter()
	r.Get("/api/product/{productId}", handler.GetProduct)

	req := httptest.NewRequest(http.MethodGet, "/api/product/999", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if response["error"] != "Product not found" {
		t.Errorf("expected error message 'Product not found', got %s", response["error"])
	}
}

func TestGetProduct_InvalidID(t *testing.T) {
	handler := newTestProductHandler(10)

	r := chi.NewRouter()
	r.Get("/api/product/{productId}", handler.GetProduct)

	testCases := []struct {
		name string
		id   string
	}{
		{"letters", "invalid"},
		{"special chars", "abc@123"},
		{"float", "12.34"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/product/"+tc.id, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("expected status 400 for ID %s, got %d", tc.id, w.Code)
			}

			var response map[string]string
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode error response: %v", err)
			}

			if response["error"] != "Invalid ID supplied" {
				t.Errorf("expected error message 'Invalid ID supplied', got %s", response["error"])
			}
		})
	}
}

func TestGetProduct_MultipleProducts(t *testing.T) {
	handler := newTestProductHandler(12)

	r := chi.NewRouter()
	r.Get("/api/product/{productId}", handler.GetProduct)

	testCases := []struct {
		id   string
		name string
	}{
		{"1", "Produto 01"},
		{"4", "Produto 04"},
		{"10", "Produto 10"},
		{"12", "Produto 12"},
	}

	for _, tc := range testCases {
		t.Run(tc.id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/product/"+tc.id, nil)
			w := httptest.NewRecorder()

			r.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("expected status 200, got %d", w.Code)
			}

			var product models.Product
			if err := json.NewDecoder(w.Body).Decode(&product); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}

			if product.ID != tc.id {
				t.Errorf("expected product ID %s, got %s", tc.id, product.ID)
			}

			if product.Name != tc.name {
				t.Errorf("expected product name '%s', got %s", tc.name, product.Name)
			}
		})
	}
}
