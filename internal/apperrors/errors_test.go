package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"wrapped validation", fmt.Errorf("%w: bad amount", apperrors.ErrValidation), http.StatusBadRequest},
		{"not found helper", apperrors.NewNotFoundError("no such company"), http.StatusNotFound},
		{"duplicate", fmt.Errorf("company code: %w", apperrors.ErrDuplicate), http.StatusConflict},
		{"forbidden", apperrors.ErrForbidden, http.StatusForbidden},
		{"no rate", fmt.Errorf("convert XXX->YYY: %w", apperrors.ErrNoRateAvailable), http.StatusUnprocessableEntity},
		{"partial write", apperrors.ErrPartialWrite, http.StatusServiceUnavailable},
		{"app error code", apperrors.NewAppError(http.StatusBadGateway, "upstream", errors.New("boom")), http.StatusBadGateway},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, apperrors.StatusCode(tt.err))
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := apperrors.NewValidationError("rate must be positive")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Contains(t, err.Error(), "rate must be positive")
}
