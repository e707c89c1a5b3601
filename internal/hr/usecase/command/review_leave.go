package command

import (
	"fmt"
	"time"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/hr/domain"
)

// ReviewLeaveCommand represents the command to approve or reject a leave
// request
type ReviewLeaveCommand struct {
	LeaveRequestID uint
	Approve        bool
	ReviewerUserID uint
}

// ReviewLeaveHandler handles the leave review command
type ReviewLeaveHandler struct {
	repo domain.LeaveRepository
}

// NewReviewLeaveHandler creates a new review leave handler
func NewReviewLeaveHandler(repo domain.LeaveRepository) *ReviewLeaveHandler {
	return &ReviewLeaveHandler{repo: repo}
}

// Handle executes the review. Only PENDING requests are reviewable; a
// request that was already approved or rejected stays as it is.
func (h *ReviewLeaveHandler) Handle(cmd ReviewLeaveCommand) (*domain.LeaveRequest, error) {
	leave, err := h.repo.FindLeaveRequestByID(cmd.LeaveRequestID)
	if err != nil {
		return nil, err
	}

	if leave.Status != domain.LeavePending {
		return nil, fmt.Errorf("leave request %d already %s: %w", leave.ID, leave.Status, apperr.ErrConflict)
	}

	if cmd.Approve {
		leave.Status = domain.LeaveApproved
	} else {
		leave.Status = domain.LeaveRejected
	}
	now := time.Now()
	leave.ReviewedByUserID = &cmd.ReviewerUserID
	leave.ReviewedAt = &now

	if err := h.repo.UpdateLeaveRequest(leave); err != nil {
		return nil, err
	}
	return leave, nil
}
