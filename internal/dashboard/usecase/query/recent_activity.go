package query

import (
	"fmt"

	hrdomain "github.com/tair/erp-backend/internal/hr/domain"
	invdomain "github.com/tair/erp-backend/internal/inventory/domain"
)

const recentActivityLimit = 10

// RecentActivity holds the latest movements across the system
type RecentActivity struct {
	RecentTransactions  []invdomain.Transaction `json:"recent_transactions"`
	RecentLeaveRequests []hrdomain.LeaveRequest `json:"recent_leave_requests"`
}

// RecentActivityHandler handles the recent activity query
type RecentActivityHandler struct {
	ledger invdomain.LedgerRepository
	leaves hrdomain.LeaveRepository
}

// NewRecentActivityHandler creates a new recent activity handler
func NewRecentActivityHandler(ledger invdomain.LedgerRepository, leaves hrdomain.LeaveRepository) *RecentActivityHandler {
	return &RecentActivityHandler{ledger: ledger, leaves: leaves}
}

// Handle returns the ten most recent stock transactions and leave requests
func (h *RecentActivityHandler) Handle() (*RecentActivity, error) {
	transactions, err := h.ledger.FindTransactions(0, recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}
	leaves, err := h.leaves.FindLeaveRequests(recentActivityLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent leave requests: %w", err)
	}

	return &RecentActivity{
		RecentTransactions:  transactions,
		RecentLeaveRequests: leaves,
	}, nil
}
