package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	e := New("VAL_001", "uid and amount are required", http.StatusBadRequest)
	assert.Equal(t, "[VAL_001] uid and amount are required", e.Error())

	wrapped := Wrap("SYS_001", "Persistence failure", http.StatusInternalServerError, errors.New("connection refused"))
	assert.Equal(t, "[SYS_001] Persistence failure: connection refused", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	inner := errors.New("disk full")
	e := ErrPersistence(inner)
	assert.ErrorIs(t, e, inner)
}

func TestErrInsufficientFunds_Details(t *testing.T) {
	e := ErrInsufficientFunds(200, 300)
	assert.Equal(t, http.StatusBadRequest, e.HTTPStatus)
	assert.Equal(t, int64(200), e.Details["balance"])
	assert.Equal(t, int64(300), e.Details["required"])
}

func TestErrNotFound(t *testing.T) {
	e := ErrNotFound("Product")
	assert.Equal(t, http.StatusNotFound, e.HTTPStatus)
	assert.Equal(t, "Product not found", e.Message)
}

func TestErrCardExists(t *testing.T) {
	e := ErrCardExists()
	assert.Equal(t, http.StatusConflict, e.HTTPStatus)
}

func TestIsPersistence(t *testing.T) {
	assert.True(t, IsPersistence(ErrPersistence(errors.New("boom"))))
	assert.True(t, IsPersistence(fmt.Errorf("handling event: %w", ErrPersistence(errors.New("boom")))))
	assert.False(t, IsPersistence(ErrInvalidRequest("bad")))
	assert.False(t, IsPersistence(errors.New("plain")))
}
