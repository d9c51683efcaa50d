package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)

	// RetryAfterHeight is set on time-dependent errors: the operation may
	// succeed once the chain passes this height. Zero means the error is
	// permanent and a relayer must not retry it.
	RetryAfterHeight int64 `json:"retry_after_height,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Retryable reports whether a relayer may retry the failed operation later.
func (e *AppError) Retryable() bool {
	return e.RetryAfterHeight > 0
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

func ErrInvalidArgument(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// Validation is an alias used by the HTTP binding layer.
func Validation(message string) *AppError {
	return ErrInvalidArgument(message)
}

// ---- Balance Ledger (LED) ----

func ErrInsufficientBalance() *AppError {
	return New("LED_001", "Insufficient balance", http.StatusPaymentRequired)
}

// ---- Token Pool (POOL) ----

func ErrInsufficientReserve() *AppError {
	return New("POOL_001", "Insufficient native reserve", http.StatusUnprocessableEntity)
}

func ErrZeroResult() *AppError {
	return New("POOL_002", "Conversion result rounds to zero", http.StatusBadRequest)
}

// ---- Sender Swap (SWAP) ----

func ErrDuplicateSwap() *AppError {
	return New("SWAP_001", "Swap ID already exists", http.StatusConflict)
}

func ErrNotFound(entity string) *AppError {
	return New("SWAP_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

func ErrAlreadyFinal() *AppError {
	return New("SWAP_003", "Record is already completed or refunded", http.StatusConflict)
}

func ErrExpired() *AppError {
	return New("SWAP_004", "Timelock has expired", http.StatusGone)
}

// ErrNotYetExpired carries the height after which a refund becomes possible.
func ErrNotYetExpired(timeLock int64) *AppError {
	e := New("SWAP_005", fmt.Sprintf("Timelock not expired until height %d", timeLock), http.StatusConflict)
	e.RetryAfterHeight = timeLock + 1
	return e
}

func ErrInvalidSecret() *AppError {
	return New("SWAP_006", "Secret does not match hash lock", http.StatusBadRequest)
}

// ---- Counterparty Lock (LOCK) ----

func ErrHashLockUsed() *AppError {
	return New("LOCK_001", "Hash lock already used", http.StatusConflict)
}

// ---- Authorization (AUTH) ----

func ErrUnauthorized() *AppError {
	return New("AUTH_001", "Caller is not authorized for this operation", http.StatusForbidden)
}

func ErrInvalidCredentials() *AppError {
	return New("AUTH_002", "Invalid credentials", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

// ---- Administration (ADMIN) ----

func ErrPaused() *AppError {
	return New("ADMIN_001", "Pool is paused", http.StatusServiceUnavailable)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_002", "Internal database error", http.StatusInternalServerError, err)
}
