package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsInvalidID(t *testing.T) {
	invalid := fmt.Errorf("get report: %w", &pgconn.PgError{Code: "22P02"})
	assert.True(t, isInvalidID(invalid))
	assert.False(t, isInvalidID(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isInvalidID(errors.New("conexión cerrada")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "22P02"}))
}
