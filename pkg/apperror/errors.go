package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses. Details
// carries extra fields merged into the error body (e.g. the shortfall
// of an insufficient-funds rejection).
type AppError struct {
	Code       string         `json:"error_code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"-"`
	Err        error          `json:"-"` // Wrapped internal error (not exposed to client)
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

// ---- Input validation (VAL) ----

// ErrInvalidRequest flags malformed or missing input. Never mutates state.
func ErrInvalidRequest(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

// Validation is the handler-side alias for binding failures.
func Validation(message string) *AppError {
	return ErrInvalidRequest(message)
}

// ---- Ledger business rules (LED) ----

// ErrInsufficientFunds reports a rejected debit with the available
// balance and the required total.
func ErrInsufficientFunds(balance, required int64) *AppError {
	e := New("LED_001", "Insufficient balance", http.StatusBadRequest)
	e.Details = map[string]any{
		"balance":  balance,
		"required": required,
	}
	return e
}

// ErrNotFound flags an unknown card, wallet or product.
func ErrNotFound(entity string) *AppError {
	return New("LED_002", fmt.Sprintf("%s not found", entity), http.StatusNotFound)
}

// ErrCardExists flags a duplicate card registration.
func ErrCardExists() *AppError {
	return New("LED_003", "Card already exists", http.StatusConflict)
}

// ---- System & Infrastructure (SYS) ----

// ErrPersistence wraps a ledger store read/write failure. The mutation
// is aborted and the prior balance stands.
func ErrPersistence(err error) *AppError {
	return Wrap("SYS_001", "Persistence failure", http.StatusInternalServerError, err)
}

// InternalError wraps any other internal error.
func InternalError(err error) *AppError {
	return Wrap("SYS_000", "Internal server error", http.StatusInternalServerError, err)
}

// IsPersistence reports whether err is a persistence failure, used by
// transport listeners to decide whether a retry makes sense.
func IsPersistence(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "SYS_001"
}
