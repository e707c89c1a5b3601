package domain

import (
	"time"
)

// TransactionType classifies a stock movement. It is a closed set; the
// string form only appears at the transport and storage boundaries.
type TransactionType string

const (
	TransactionIn         TransactionType = "IN"
	TransactionOut        TransactionType = "OUT"
	TransactionAdjustment TransactionType = "ADJUSTMENT"
)

// IsValid reports whether the value is one of the known transaction types
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIn, TransactionOut, TransactionAdjustment:
		return true
	}
	return false
}

// Product represents a stocked item. CurrentStock is derived state: it
// always equals the sum of all applied transaction deltas and is never
// negative.
type Product struct {
	ID                uint      `json:"id" gorm:"primaryKey"`
	SKU               string    `json:"sku" gorm:"uniqueIndex;not null"`
	Name              string    `json:"name" gorm:"not null"`
	Description       string    `json:"description"`
	Unit              string    `json:"unit"`
	CurrentStock      int       `json:"current_stock" gorm:"not null;default:0"`
	LowStockThreshold int       `json:"low_stock_threshold" gorm:"not null;default:10"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName specifies the table name
func (Product) TableName() string {
	return "products"
}

// Transaction is one immutable ledger record. Rows are appended inside the
// same unit of work that mutates the product's stock and are never updated
// or deleted afterwards.
type Transaction struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ProductID   uint            `json:"product_id" gorm:"not null;index"`
	Type        TransactionType `json:"type" gorm:"not null"`
	Quantity    int             `json:"quantity" gorm:"not null"`
	Note        string          `json:"note"`
	ActorUserID uint            `json:"actor_user_id"`
	CreatedAt   time.Time       `json:"created_at"`
}

// TableName specifies the table name
func (Transaction) TableName() string {
	return "inventory_transactions"
}

// ProductRepository defines the contract for product data access
type ProductRepository interface {
	Create(product *Product) error
	FindByID(id uint) (*Product, error)
	FindBySKU(sku string) (*Product, error)
	FindAll(limit, offset int) ([]Product, error)
	FindLowStock() ([]Product, error)
	Count() (int64, error)
}

// LedgerRepository applies stock transactions and reads the ledger.
// ApplyTransaction must perform the read-modify-write-append for a single
// product as one atomic unit of work with the product row exclusively
// locked, and must leave no partial state on rejection.
type LedgerRepository interface {
	ApplyTransaction(txn *Transaction) (*Transaction, error)
	FindTransactions(productID uint, limit int) ([]Transaction, error)
}
