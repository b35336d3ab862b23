package remote

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	assert.NoError(t, mapError("op", nil))
	assert.ErrorIs(t, mapError("op", pgx.ErrNoRows), ErrNotFound)

	rls := &pgconn.PgError{Code: "42501", Message: "new row violates row-level security policy"}
	err := mapError("upsert setting", rls)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.Contains(t, err.Error(), "row-level security")

	other := errors.New("connection refused")
	err = mapError("list settings", other)
	assert.ErrorIs(t, err, other)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "list settings")
}

func TestLimitOrAll(t *testing.T) {
	assert.Nil(t, limitOrAll(0))
	assert.Nil(t, limitOrAll(-5))
	if got := limitOrAll(10); assert.NotNil(t, got) {
		assert.Equal(t, 10, *got)
	}
}
