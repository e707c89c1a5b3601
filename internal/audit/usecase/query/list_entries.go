package query

import (
	"fmt"

	"github.com/tair/erp-backend/internal/audit/domain"
)

// ListEntriesQuery represents the query to list audit log entries
type ListEntriesQuery struct {
	Limit  int
	Offset int
}

// ListEntriesHandler handles the audit log listing query
type ListEntriesHandler struct {
	repo domain.Repository
}

// NewListEntriesHandler creates a new list entries handler
func NewListEntriesHandler(repo domain.Repository) *ListEntriesHandler {
	return &ListEntriesHandler{repo: repo}
}

// Handle executes the list entries query
func (h *ListEntriesHandler) Handle(q ListEntriesQuery) ([]domain.Entry, error) {
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	entries, err := h.repo.FindAll(limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
