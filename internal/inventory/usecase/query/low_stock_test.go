package query

import (
	"reflect"
	"testing"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/inventory/domain"
)

type stubProductRepo struct {
	products []domain.Product
}

func (s *stubProductRepo) Create(product *domain.Product) error {
	product.ID = uint(len(s.products) + 1)
	s.products = append(s.products, *product)
	return nil
}

func (s *stubProductRepo) FindByID(id uint) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].ID == id {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *stubProductRepo) FindBySKU(sku string) (*domain.Product, error) {
	for i := range s.products {
		if s.products[i].SKU == sku {
			p := s.products[i]
			return &p, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (s *stubProductRepo) FindAll(limit, offset int) ([]domain.Product, error) {
	return append([]domain.Product(nil), s.products...), nil
}

func (s *stubProductRepo) FindLowStock() ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range s.products {
		if p.CurrentStock <= p.LowStockThreshold {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubProductRepo) Count() (int64, error) {
	return int64(len(s.products)), nil
}

func TestLowStock(t *testing.T) {
	repo := &stubProductRepo{products: []domain.Product{
		{ID: 1, SKU: "BOLT-M6", CurrentStock: 3, LowStockThreshold: 10},
		{ID: 2, SKU: "NUT-M6", CurrentStock: 50, LowStockThreshold: 10},
		{ID: 3, SKU: "WASHER-M6", CurrentStock: 10, LowStockThreshold: 10},
	}}
	handler := NewLowStockHandler(repo)

	got, err := handler.Handle(LowStockQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("returned %d products, want 2", len(got))
	}
	for _, p := range got {
		if p.CurrentStock > p.LowStockThreshold {
			t.Fatalf("product %s is above its threshold (%d > %d)", p.SKU, p.CurrentStock, p.LowStockThreshold)
		}
	}

	again, err := handler.Handle(LowStockQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Fatalf("repeated reads differ: %v vs %v", got, again)
	}
}
