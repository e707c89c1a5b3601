package query

import (
	"reflect"
	"sync"
	"testing"

	"github.com/tair/erp-backend/internal/inventory/domain"
)

// stubLedger holds transactions newest-last and serves reads the way the
// real repository does: most recent first, optional product filter.
type stubLedger struct {
	mu           sync.Mutex
	transactions []domain.Transaction
}

func (s *stubLedger) ApplyTransaction(txn *domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	txn.ID = uint(len(s.transactions) + 1)
	s.transactions = append(s.transactions, *txn)
	return txn, nil
}

func (s *stubLedger) FindTransactions(productID uint, limit int) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Transaction
	for i := len(s.transactions) - 1; i >= 0 && len(out) < limit; i-- {
		if productID == 0 || s.transactions[i].ProductID == productID {
			out = append(out, s.transactions[i])
		}
	}
	return out, nil
}

func seedLedger(t *testing.T, ledger *stubLedger, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := ledger.ApplyTransaction(&domain.Transaction{
			ProductID: uint(i%2 + 1),
			Type:      domain.TransactionIn,
			Quantity:  i + 1,
		})
		if err != nil {
			t.Fatalf("seed transaction %d: %v", i, err)
		}
	}
}

func TestListTransactionsOrdering(t *testing.T) {
	ledger := &stubLedger{}
	seedLedger(t, ledger, 6)
	handler := NewListTransactionsHandler(ledger)

	got, err := handler.Handle(ListTransactionsQuery{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("returned %d transactions, want 6", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].ID > got[i-1].ID {
			t.Fatalf("transactions out of order at %d: %d after %d", i, got[i].ID, got[i-1].ID)
		}
	}
}

func TestListTransactionsProductFilter(t *testing.T) {
	ledger := &stubLedger{}
	seedLedger(t, ledger, 6)
	handler := NewListTransactionsHandler(ledger)

	got, err := handler.Handle(ListTransactionsQuery{ProductID: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("returned %d transactions for product 2, want 3", len(got))
	}
	for _, txn := range got {
		if txn.ProductID != 2 {
			t.Fatalf("filter leaked transaction for product %d", txn.ProductID)
		}
	}
}

func TestListTransactionsLimit(t *testing.T) {
	ledger := &stubLedger{}
	seedLedger(t, ledger, 6)
	handler := NewListTransactionsHandler(ledger)

	tests := []struct {
		name  string
		limit int
		want  int
	}{
		{"explicit", 2, 2},
		{"zero defaults", 0, 6},
		{"negative defaults", -1, 6},
		{"over cap defaults", 501, 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := handler.Handle(ListTransactionsQuery{Limit: tt.limit})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("returned %d transactions, want %d", len(got), tt.want)
			}
		})
	}
}

func TestListTransactionsRepeatedReads(t *testing.T) {
	ledger := &stubLedger{}
	seedLedger(t, ledger, 5)
	handler := NewListTransactionsHandler(ledger)

	first, err := handler.Handle(ListTransactionsQuery{ProductID: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := handler.Handle(ListTransactionsQuery{ProductID: 1, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated reads differ: %v vs %v", first, second)
	}
}
