package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidQuantity is returned when a quantity has the wrong sign for the
// transaction type: IN and OUT quantities must be non-negative.
var ErrInvalidQuantity = errors.New("quantity must not be negative for this transaction type")

// InvalidTransactionError reports a transaction that would drive stock
// below zero. The operation is rejected with no state change.
type InvalidTransactionError struct {
	ProductID uint
	Current   int
	Requested int
}

func (e *InvalidTransactionError) Error() string {
	return fmt.Sprintf("transaction would result in negative stock (product %d: %d -> %d)",
		e.ProductID, e.Current, e.Requested)
}

// NextStock computes the stock level after applying a transaction. It is a
// pure function: IN adds, OUT subtracts, ADJUSTMENT applies a signed
// relative delta. Any result below zero rejects the whole transaction.
func NextStock(current int, typ TransactionType, quantity int) (int, error) {
	var next int
	switch typ {
	case TransactionIn:
		if quantity < 0 {
			return 0, ErrInvalidQuantity
		}
		next = current + quantity
	case TransactionOut:
		if quantity < 0 {
			return 0, ErrInvalidQuantity
		}
		next = current - quantity
	case TransactionAdjustment:
		next = current + quantity
	default:
		return 0, fmt.Errorf("unknown transaction type %q", typ)
	}

	if next < 0 {
		return 0, &InvalidTransactionError{Current: current, Requested: next}
	}
	return next, nil
}

// Delta returns the signed stock change a transaction applied
func (t *Transaction) Delta() int {
	if t.Type == TransactionOut {
		return -t.Quantity
	}
	return t.Quantity
}
