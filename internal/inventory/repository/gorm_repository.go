package repository

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/erp-backend/internal/apperr"
	auditdomain "github.com/tair/erp-backend/internal/audit/domain"
	"github.com/tair/erp-backend/internal/inventory/domain"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation
}

// GormInventoryRepository implements ProductRepository and LedgerRepository
// using GORM
type GormInventoryRepository struct {
	db *gorm.DB
}

// NewGormInventoryRepository creates a new GORM inventory repository
func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

// Create inserts a new product
func (r *GormInventoryRepository) Create(product *domain.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("product with sku %s: %w", product.SKU, apperr.ErrConflict)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// FindByID retrieves a product by ID
func (r *GormInventoryRepository) FindByID(id uint) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %d: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindBySKU retrieves a product by SKU
func (r *GormInventoryRepository) FindBySKU(sku string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.Where("sku = ?", sku).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", sku, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// FindAll retrieves all products with pagination
func (r *GormInventoryRepository) FindAll(limit, offset int) ([]domain.Product, error) {
	var products []domain.Product
	query := r.db.Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	return products, nil
}

// FindLowStock retrieves products at or below their low stock threshold
func (r *GormInventoryRepository) FindLowStock() ([]domain.Product, error) {
	var products []domain.Product
	if err := r.db.Where("current_stock <= low_stock_threshold").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to find low stock products: %w", err)
	}
	return products, nil
}

// Count returns the total number of products
func (r *GormInventoryRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// ApplyTransaction performs the stock read-modify-write-append as one
// database transaction. The product row is locked with SELECT ... FOR
// UPDATE so concurrent transactions against the same product serialize;
// the ledger row and the audit entry commit in the same unit of work, so a
// stock mutation without its records never becomes visible.
func (r *GormInventoryRepository) ApplyTransaction(txn *domain.Transaction) (*domain.Transaction, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product domain.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, txn.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("product %d: %w", txn.ProductID, apperr.ErrNotFound)
			}
			return fmt.Errorf("failed to lock product: %w", err)
		}

		newStock, err := domain.NextStock(product.CurrentStock, txn.Type, txn.Quantity)
		if err != nil {
			var invalid *domain.InvalidTransactionError
			if errors.As(err, &invalid) {
				invalid.ProductID = product.ID
			}
			return err
		}

		if err := tx.Model(&domain.Product{}).Where("id = ?", product.ID).
			Update("current_stock", newStock).Error; err != nil {
			return fmt.Errorf("failed to update stock: %w", err)
		}

		if err := tx.Create(txn).Error; err != nil {
			return fmt.Errorf("failed to append transaction: %w", err)
		}

		metadata, err := json.Marshal(map[string]any{
			"type":      txn.Type,
			"qty":       txn.Quantity,
			"new_stock": newStock,
		})
		if err != nil {
			return fmt.Errorf("failed to encode audit metadata: %w", err)
		}
		var actorID *uint
		if txn.ActorUserID != 0 {
			actorID = &txn.ActorUserID
		}
		entry := auditdomain.Entry{
			ActorUserID: actorID,
			Action:      "TRANSACT",
			EntityType:  "product",
			EntityID:    &product.ID,
			Metadata:    datatypes.JSON(metadata),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("failed to record audit entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// FindTransactions retrieves ledger records, most recent first. A zero
// productID returns records for all products.
func (r *GormInventoryRepository) FindTransactions(productID uint, limit int) ([]domain.Transaction, error) {
	var transactions []domain.Transaction
	query := r.db.Order("created_at DESC")

	if productID != 0 {
		query = query.Where("product_id = ?", productID)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to find transactions: %w", err)
	}
	return transactions, nil
}

// AutoMigrate runs database migrations for the inventory tables
func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Product{}, &domain.Transaction{})
}
