package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/domain"
)

func TestRequireID_UUIDValido(t *testing.T) {
	require.NoError(t, domain.RequireID("reporte", uuid.NewString()))
}

func TestRequireID_MalFormadoEsNotFound(t *testing.T) {
	for _, id := range []string{"", "abc", "123", "'; DROP TABLE x; --"} {
		err := domain.RequireID("reporte", id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "id %q", id)
	}
}
