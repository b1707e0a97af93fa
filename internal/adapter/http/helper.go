package http

import (
	"errors"
	"net/http"
	"strings"

	finance "tycoon-backend/internal/domain/finance"
)

// ---- helpers ----

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// statusForError maps domain rejections onto HTTP statuses: malformed or
// out-of-range input → 400, unknown ids → 404, business-rule conflicts → 409.
func statusForError(err error) int {
	switch {
	case errors.Is(err, finance.ErrUnknownBank),
		errors.Is(err, finance.ErrUnknownLoanType),
		errors.Is(err, finance.ErrNoActiveLoan):
		return http.StatusNotFound
	case errors.Is(err, finance.ErrActiveLoanExists),
		errors.Is(err, finance.ErrInsufficientBalance),
		errors.Is(err, finance.ErrBankLocked),
		errors.Is(err, finance.ErrLoanTypeLocked):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
