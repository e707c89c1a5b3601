// Package httpapi holds the JSON response helpers and the mapping from the
// domain error taxonomy to HTTP status codes, shared by every delivery
// package.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tair/erp-backend/internal/apperr"
	"github.com/tair/erp-backend/internal/authz"
	invdomain "github.com/tair/erp-backend/internal/inventory/domain"
)

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error             string `json:"error"`
	Code              string `json:"code,omitempty"`
	MissingPermission string `json:"missing_permission,omitempty"`
}

// RespondJSON sends a JSON response
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError sends an error response with an explicit status
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, ErrorResponse{Error: message})
}

// RespondDomainError maps a domain error to its HTTP representation. Errors
// outside the taxonomy become a 500 without leaking internals.
func RespondDomainError(w http.ResponseWriter, err error) {
	var forbidden *authz.ForbiddenError
	var invalidTxn *invdomain.InvalidTransactionError

	switch {
	case errors.Is(err, apperr.ErrUnauthenticated):
		RespondJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: "unauthenticated"})
	case errors.Is(err, apperr.ErrInactiveUser):
		RespondJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: "inactive_user"})
	case errors.As(err, &forbidden):
		RespondJSON(w, http.StatusForbidden, ErrorResponse{
			Error:             forbidden.Error(),
			Code:              "forbidden",
			MissingPermission: forbidden.Missing,
		})
	case errors.Is(err, apperr.ErrNotFound):
		RespondJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "not_found"})
	case errors.Is(err, apperr.ErrConflict):
		RespondJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "conflict"})
	case errors.As(err, &invalidTxn), errors.Is(err, invdomain.ErrInvalidQuantity):
		RespondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error(), Code: "invalid_transaction"})
	case errors.Is(err, apperr.ErrInvalidInput):
		RespondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_input"})
	default:
		RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
