package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError_IsErrNotFound(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewNotFoundError("ticket", "42"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), `"42"`)
}

func TestNewStoreError(t *testing.T) {
	assert.Nil(t, NewStoreError("op", nil))

	nf := NewNotFoundError("company", "x")
	assert.Same(t, nf, NewStoreError("update company", nf), "not-found passes through untouched")

	err := NewStoreError("create company", &pgconn.PgError{Code: "23505"})
	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.True(t, storeErr.Conflict)
	assert.True(t, errors.Is(err, ErrStore))

	plain := NewStoreError("list tickets", errors.New("connection refused"))
	require.True(t, errors.As(plain, &storeErr))
	assert.False(t, storeErr.Conflict)
	assert.Same(t, plain, NewStoreError("outer", plain), "no double wrapping")
}

func TestValidationError(t *testing.T) {
	v := &ValidationError{}
	assert.False(t, v.HasErrors())
	v.Add("title", "required")
	v.Add("company_id", "required")
	assert.True(t, v.HasErrors())
	assert.Equal(t, "ошибка валидации: company_id: required; title: required", v.Error())
}
