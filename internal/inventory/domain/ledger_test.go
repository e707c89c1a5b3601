package domain

import (
	"errors"
	"testing"
)

func TestNextStock(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		typ      TransactionType
		quantity int
		want     int
		wantErr  bool
	}{
		{"in adds", 10, TransactionIn, 5, 15, false},
		{"in zero quantity", 10, TransactionIn, 0, 10, false},
		{"out subtracts", 10, TransactionOut, 4, 6, false},
		{"out to exactly zero", 10, TransactionOut, 10, 0, false},
		{"out below zero rejected", 6, TransactionOut, 10, 0, true},
		{"adjustment positive", 2, TransactionAdjustment, 3, 5, false},
		{"adjustment negative to zero", 2, TransactionAdjustment, -2, 0, false},
		{"adjustment below zero rejected", 2, TransactionAdjustment, -3, 0, true},
		{"unknown type rejected", 2, TransactionType("SET"), 1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStock(tt.current, tt.typ, tt.quantity)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got stock %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected stock %d, got %d", tt.want, got)
			}
		})
	}
}

func TestNextStockInvalidQuantitySign(t *testing.T) {
	for _, typ := range []TransactionType{TransactionIn, TransactionOut} {
		_, err := NextStock(10, typ, -1)
		if !errors.Is(err, ErrInvalidQuantity) {
			t.Errorf("%s with negative quantity: expected ErrInvalidQuantity, got %v", typ, err)
		}
	}
}

func TestNextStockNegativeStockError(t *testing.T) {
	_, err := NextStock(6, TransactionOut, 10)

	var invalid *InvalidTransactionError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidTransactionError, got %v", err)
	}
	if invalid.Current != 6 || invalid.Requested != -4 {
		t.Errorf("unexpected error detail: %+v", invalid)
	}
}

func TestTransactionDelta(t *testing.T) {
	out := Transaction{Type: TransactionOut, Quantity: 4}
	if out.Delta() != -4 {
		t.Errorf("expected OUT delta -4, got %d", out.Delta())
	}
	in := Transaction{Type: TransactionIn, Quantity: 4}
	if in.Delta() != 4 {
		t.Errorf("expected IN delta 4, got %d", in.Delta())
	}
	adj := Transaction{Type: TransactionAdjustment, Quantity: -2}
	if adj.Delta() != -2 {
		t.Errorf("expected ADJUSTMENT delta -2, got %d", adj.Delta())
	}
}
