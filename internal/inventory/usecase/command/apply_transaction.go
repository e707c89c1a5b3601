package command

import (
	"context"
	"fmt"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/inventory/domain"
)

// ledgerWithContext is implemented by decorators that attach spans to the
// locked read-modify-write.
type ledgerWithContext interface {
	ApplyTransactionWithContext(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error)
}

// ApplyTransactionCommand represents the command to apply a stock movement
type ApplyTransactionCommand struct {
	ProductID   uint
	Type        domain.TransactionType
	Quantity    int
	Note        string
	ActorUserID uint
}

// ApplyTransactionHandler handles the stock transaction command
type ApplyTransactionHandler struct {
	ledger domain.LedgerRepository
}

// NewApplyTransactionHandler creates a new apply transaction handler
func NewApplyTransactionHandler(ledger domain.LedgerRepository) *ApplyTransactionHandler {
	return &ApplyTransactionHandler{ledger: ledger}
}

// Handle executes the stock transaction. The repository serializes
// concurrent transactions on the same product and rejects any movement
// that would drive stock negative, leaving no partial state behind.
func (h *ApplyTransactionHandler) Handle(ctx context.Context, cmd ApplyTransactionCommand) (*domain.Transaction, error) {
	if cmd.ProductID == 0 {
		return nil, fmt.Errorf("product id is required: %w", apperr.ErrInvalidInput)
	}
	if !cmd.Type.IsValid() {
		return nil, fmt.Errorf("unknown transaction type %q: %w", cmd.Type, apperr.ErrInvalidInput)
	}

	txn := &domain.Transaction{
		ProductID:   cmd.ProductID,
		Type:        cmd.Type,
		Quantity:    cmd.Quantity,
		Note:        cmd.Note,
		ActorUserID: cmd.ActorUserID,
	}

	if traced, ok := h.ledger.(ledgerWithContext); ok {
		return traced.ApplyTransactionWithContext(ctx, txn)
	}
	return h.ledger.ApplyTransaction(txn)
}
