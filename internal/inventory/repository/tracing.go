package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/erp-backend/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracedLedger wraps a LedgerRepository with spans around the
// concurrency-critical operations.
type TracedLedger struct {
	domain.LedgerRepository
}

// NewTracedLedger creates a ledger repository with tracing
func NewTracedLedger(inner domain.LedgerRepository) *TracedLedger {
	return &TracedLedger{LedgerRepository: inner}
}

// ApplyTransactionWithContext traces the locked read-modify-write
func (t *TracedLedger) ApplyTransactionWithContext(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	_, span := tracer.Start(ctx, "ledger.ApplyTransaction",
		trace.WithAttributes(
			attribute.Int("product.id", int(txn.ProductID)),
			attribute.String("transaction.type", string(txn.Type)),
			attribute.Int("transaction.quantity", txn.Quantity),
		),
	)
	defer span.End()

	applied, err := t.LedgerRepository.ApplyTransaction(txn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("transaction.id", int(applied.ID)))
	return applied, nil
}
