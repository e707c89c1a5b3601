package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Entry is one immutable audit log record. Rows are created, never updated
// or deleted. ActorUserID is nil for unattributed system actions.
type Entry struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ActorUserID *uint          `json:"actor_user_id" gorm:"index"`
	Action      string         `json:"action" gorm:"not null"`
	EntityType  string         `json:"entity_type" gorm:"not null"`
	EntityID    *uint          `json:"entity_id"`
	Metadata    datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// TableName specifies the table name
func (Entry) TableName() string {
	return "audit_logs"
}

// Recorder appends audit entries. Implementations must be append-only.
type Recorder interface {
	Record(actorID *uint, action, entityType string, entityID *uint, metadata map[string]any) (*Entry, error)
}

// Repository defines read access to the audit log
type Repository interface {
	Recorder
	FindAll(limit, offset int) ([]Entry, error)
}
