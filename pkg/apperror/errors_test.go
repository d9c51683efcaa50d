package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_ErrorString(t *testing.T) {
	e := New("SWAP_001", "Swap ID already exists", http.StatusConflict)
	assert.Equal(t, "[SWAP_001] Swap ID already exists", e.Error())

	wrapped := Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, fmt.Errorf("dial tcp: refused"))
	assert.Contains(t, wrapped.Error(), "SYS_001")
	assert.Contains(t, wrapped.Error(), "dial tcp: refused")
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("inner")
	e := InternalError(inner)
	assert.ErrorIs(t, e, inner)
}

func TestAppError_ErrorsAs(t *testing.T) {
	var appErr *AppError
	err := fmt.Errorf("handler: %w", ErrAlreadyFinal())
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SWAP_003", appErr.Code)
	assert.Equal(t, http.StatusConflict, appErr.HTTPStatus)
}

func TestRetryClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       *AppError
		retryable bool
	}{
		{"already final is permanent", ErrAlreadyFinal(), false},
		{"invalid secret is permanent", ErrInvalidSecret(), false},
		{"unauthorized is permanent", ErrUnauthorized(), false},
		{"expired is permanent", ErrExpired(), false},
		{"not yet expired is time-dependent", ErrNotYetExpired(150), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, tt.err.Retryable())
		})
	}
}

func TestErrNotYetExpired_RetryHeight(t *testing.T) {
	e := ErrNotYetExpired(100)
	assert.Equal(t, int64(101), e.RetryAfterHeight)
	assert.Contains(t, e.Message, "100")
}

func TestCatalogueStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   string
		status int
	}{
		{ErrInvalidArgument("zero amount"), "VAL_001", http.StatusBadRequest},
		{ErrInsufficientBalance(), "LED_001", http.StatusPaymentRequired},
		{ErrInsufficientReserve(), "POOL_001", http.StatusUnprocessableEntity},
		{ErrZeroResult(), "POOL_002", http.StatusBadRequest},
		{ErrDuplicateSwap(), "SWAP_001", http.StatusConflict},
		{ErrNotFound("swap"), "SWAP_002", http.StatusNotFound},
		{ErrExpired(), "SWAP_004", http.StatusGone},
		{ErrHashLockUsed(), "LOCK_001", http.StatusConflict},
		{ErrUnauthorized(), "AUTH_001", http.StatusForbidden},
		{ErrPaused(), "ADMIN_001", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
		})
	}
}
