package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/inventory/domain"
)

// mockLedger serializes ApplyTransaction with a mutex, mirroring the
// row-level lock the real repository takes on the product.
type mockLedger struct {
	mu      sync.Mutex
	stock   map[uint]int
	applied []domain.Transaction
}

func newMockLedger(stock map[uint]int) *mockLedger {
	return &mockLedger{stock: stock}
}

func (m *mockLedger) ApplyTransaction(txn *domain.Transaction) (*domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.stock[txn.ProductID]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	next, err := domain.NextStock(current, txn.Type, txn.Quantity)
	if err != nil {
		var invalid *domain.InvalidTransactionError
		if errors.As(err, &invalid) {
			invalid.ProductID = txn.ProductID
		}
		return nil, err
	}
	m.stock[txn.ProductID] = next
	txn.ID = uint(len(m.applied) + 1)
	m.applied = append(m.applied, *txn)
	return txn, nil
}

func (m *mockLedger) FindTransactions(productID uint, limit int) ([]domain.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Transaction
	for i := len(m.applied) - 1; i >= 0 && len(out) < limit; i-- {
		if productID == 0 || m.applied[i].ProductID == productID {
			out = append(out, m.applied[i])
		}
	}
	return out, nil
}

func TestApplyTransactionSequence(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10})
	handler := NewApplyTransactionHandler(ledger)

	steps := []struct {
		typ       domain.TransactionType
		qty       int
		wantErr   bool
		wantStock int
	}{
		{domain.TransactionOut, 4, false, 6},
		{domain.TransactionOut, 7, true, 6},
		{domain.TransactionAdjustment, -6, false, 0},
		{domain.TransactionAdjustment, -1, true, 0},
		{domain.TransactionIn, 3, false, 3},
	}

	for i, step := range steps {
		_, err := handler.Handle(context.Background(), ApplyTransactionCommand{
			ProductID: 1,
			Type:      step.typ,
			Quantity:  step.qty,
		})
		if step.wantErr {
			if err == nil {
				t.Fatalf("step %d: expected rejection, got nil", i)
			}
			var invalid *domain.InvalidTransactionError
			if !errors.As(err, &invalid) {
				t.Fatalf("step %d: expected InvalidTransactionError, got %v", i, err)
			}
		} else if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if got := ledger.stock[1]; got != step.wantStock {
			t.Fatalf("step %d: stock = %d, want %d", i, got, step.wantStock)
		}
	}
}

func TestApplyTransactionValidation(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10})
	handler := NewApplyTransactionHandler(ledger)

	tests := []struct {
		name string
		cmd  ApplyTransactionCommand
	}{
		{"missing product id", ApplyTransactionCommand{Type: domain.TransactionIn, Quantity: 1}},
		{"unknown type", ApplyTransactionCommand{ProductID: 1, Type: "TRANSFER", Quantity: 1}},
		{"empty type", ApplyTransactionCommand{ProductID: 1, Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tt.cmd)
			if !errors.Is(err, apperr.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if len(ledger.applied) != 0 {
		t.Fatalf("rejected commands must not reach the ledger, got %d applied", len(ledger.applied))
	}
}

// contextLedger is a mockLedger that also exposes the context-aware
// entry point, the way the traced repository wrapper does.
type contextLedger struct {
	*mockLedger
	ctxCalls int
	lastCtx  context.Context
}

func (c *contextLedger) ApplyTransactionWithContext(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	c.ctxCalls++
	c.lastCtx = ctx
	return c.mockLedger.ApplyTransaction(txn)
}

func TestApplyTransactionPrefersContextLedger(t *testing.T) {
	ledger := &contextLedger{mockLedger: newMockLedger(map[uint]int{1: 5})}
	handler := NewApplyTransactionHandler(ledger)

	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	_, err := handler.Handle(ctx, ApplyTransactionCommand{
		ProductID: 1,
		Type:      domain.TransactionOut,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ledger.ctxCalls != 1 {
		t.Fatalf("context-aware ledger called %d times, want 1", ledger.ctxCalls)
	}
	if got := ledger.lastCtx.Value(ctxKey{}); got != "req-1" {
		t.Fatalf("handler did not propagate the caller context, got %v", got)
	}
	if got := ledger.stock[1]; got != 3 {
		t.Fatalf("stock = %d, want 3", got)
	}
}

func TestApplyTransactionConcurrentOut(t *testing.T) {
	ledger := newMockLedger(map[uint]int{1: 10})
	handler := NewApplyTransactionHandler(ledger)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = handler.Handle(context.Background(), ApplyTransactionCommand{
				ProductID: 1,
				Type:      domain.TransactionOut,
				Quantity:  6,
			})
		}(i)
	}
	wg.Wait()

	var succeeded, rejected int
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		rejected++
		var invalid *domain.InvalidTransactionError
		if !errors.As(err, &invalid) {
			t.Fatalf("expected InvalidTransactionError, got %v", err)
		}
		if invalid.Current != 4 || invalid.Requested != -2 {
			t.Fatalf("rejection reported current=%d requested=%d, want 4 and -2", invalid.Current, invalid.Requested)
		}
	}
	if succeeded != 1 || rejected != 1 {
		t.Fatalf("got %d successes and %d rejections, want exactly one of each", succeeded, rejected)
	}
	if got := ledger.stock[1]; got != 4 {
		t.Fatalf("stock = %d, want 4", got)
	}
}

// TestApplyTransactionConservation drives a random-ish workload through the
// handler and checks the final stock equals the sum of the applied deltas.
func TestApplyTransactionConservation(t *testing.T) {
	ledger := newMockLedger(map[uint]int{7: 0})
	handler := NewApplyTransactionHandler(ledger)

	workload := []struct {
		typ domain.TransactionType
		qty int
	}{
		{domain.TransactionIn, 20},
		{domain.TransactionOut, 5},
		{domain.TransactionAdjustment, -3},
		{domain.TransactionOut, 30}, // rejected
		{domain.TransactionIn, 8},
		{domain.TransactionAdjustment, 2},
		{domain.TransactionOut, 22},
		{domain.TransactionAdjustment, -5}, // rejected
	}

	for _, w := range workload {
		handler.Handle(context.Background(), ApplyTransactionCommand{ProductID: 7, Type: w.typ, Quantity: w.qty})
	}

	sum := 0
	for _, txn := range ledger.applied {
		sum += txn.Delta()
	}
	if got := ledger.stock[7]; got != sum {
		t.Fatalf("stock = %d but ledger deltas sum to %d", got, sum)
	}
	if ledger.stock[7] < 0 {
		t.Fatalf("stock went negative: %d", ledger.stock[7])
	}
}
