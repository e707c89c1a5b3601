package repository

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tair/erp-backend/internal/audit/domain"
)

// GormAuditRepository implements the audit Repository interface using GORM
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GORM audit repository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Record appends a new audit entry
func (r *GormAuditRepository) Record(actorID *uint, action, entityType string, entityID *uint, metadata map[string]any) (*domain.Entry, error) {
	entry := domain.Entry{
		ActorUserID: actorID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
	}

	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to encode audit metadata: %w", err)
		}
		entry.Metadata = datatypes.JSON(raw)
	}

	if err := r.db.Create(&entry).Error; err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}
	return &entry, nil
}

// FindAll retrieves audit entries, most recent first
func (r *GormAuditRepository) FindAll(limit, offset int) ([]domain.Entry, error) {
	var entries []domain.Entry
	query := r.db.Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to find audit entries: %w", err)
	}
	return entries, nil
}

// AutoMigrate runs database migrations
func (r *GormAuditRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.Entry{})
}
