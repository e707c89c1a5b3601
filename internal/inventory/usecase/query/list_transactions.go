package query

import (
	"fmt"

	"github.com/tair/erp-backend/internal/inventory/domain"
)

// ListTransactionsQuery represents the query to read the ledger.
// ProductID zero means all products.
type ListTransactionsQuery struct {
	ProductID uint
	Limit     int
}

// ListTransactionsHandler handles the ledger read query
type ListTransactionsHandler struct {
	ledger domain.LedgerRepository
}

// NewListTransactionsHandler creates a new list transactions handler
func NewListTransactionsHandler(ledger domain.LedgerRepository) *ListTransactionsHandler {
	return &ListTransactionsHandler{ledger: ledger}
}

// Handle executes the list transactions query, most recent first
func (h *ListTransactionsHandler) Handle(q ListTransactionsQuery) ([]domain.Transaction, error) {
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	transactions, err := h.ledger.FindTransactions(q.ProductID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
