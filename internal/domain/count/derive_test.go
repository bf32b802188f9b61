package count_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

func intPtr(n int) *int { return &n }

// ──────────────────────────────────────────────────────────────────────────────
// Derivación de diferencia y estado
// ──────────────────────────────────────────────────────────────────────────────

func TestDeriveDiffStatus_Propiedades(t *testing.T) {
	for expected := 0; expected <= 6; expected++ {
		for actual := 0; actual <= 6; actual++ {
			diff, status := count.DeriveDiffStatus(intPtr(actual), expected)
			require.NotNil(t, diff)
			assert.Equal(t, actual-expected, *diff)
			switch {
			case *diff == 0:
				assert.Equal(t, entity.CountStatusMatched, status)
			case *diff < 0:
				assert.Equal(t, entity.CountStatusMissing, status)
			default:
				assert.Equal(t, entity.CountStatusOver, status)
			}
		}
	}
}

func TestDeriveDiffStatus_SinConteoEsPending(t *testing.T) {
	diff, status := count.DeriveDiffStatus(nil, 7)
	assert.Nil(t, diff)
	assert.Equal(t, entity.CountStatusPending, status)
}

func TestRecompute_TrasLimpiarVuelveAPending(t *testing.T) {
	l := &entity.CountLine{ExpectedQty: 2, ActualQty: intPtr(5)}
	count.Recompute(l)
	require.NotNil(t, l.Diff)
	assert.Equal(t, 3, *l.Diff)
	assert.Equal(t, entity.CountStatusOver, l.Status)

	l.ActualQty = nil
	count.Recompute(l)
	assert.Nil(t, l.Diff)
	assert.Equal(t, entity.CountStatusPending, l.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de valores
// ──────────────────────────────────────────────────────────────────────────────

func TestParseQuantity(t *testing.T) {
	lim := count.DefaultLimits()

	q, err := count.ParseQuantity(float64(12), true, lim)
	require.NoError(t, err)
	assert.Equal(t, 12, *q)

	q, err = count.ParseQuantity(nil, true, lim)
	require.NoError(t, err)
	assert.Nil(t, q)

	_, err = count.ParseQuantity(nil, false, lim)
	assert.ErrorIs(t, err, domain.ErrValidation)

	for _, bad := range []any{-1, 1.5, float64(lim.MaxQty + 1), "5", true} {
		_, err := count.ParseQuantity(bad, true, lim)
		assert.ErrorIs(t, err, domain.ErrValidation, "%v", bad)
	}
}

func TestParseNoteYReason(t *testing.T) {
	lim := count.Limits{MaxQty: 10, MaxNoteLen: 3}

	n, err := count.ParseNote("abc", lim)
	require.NoError(t, err)
	assert.Equal(t, "abc", n)
	_, err = count.ParseNote("abcd", lim)
	assert.ErrorIs(t, err, domain.ErrValidation)

	r, err := count.ParseReason(count.ReasonDamaged)
	require.NoError(t, err)
	assert.Equal(t, count.ReasonDamaged, *r)
	r, err = count.ParseReason("")
	require.NoError(t, err)
	assert.Nil(t, r)
	_, err = count.ParseReason("LOST_IN_SPACE")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fecha operativa
// ──────────────────────────────────────────────────────────────────────────────

func TestOperatingDate_TurnoNocturnoCruzaMedianoche(t *testing.T) {
	cal := count.Calendar{OvernightShift: 3, CutoffHour: 6, Location: time.UTC}

	beforeMidnight := time.Date(2026, 3, 9, 23, 30, 0, 0, time.UTC)
	afterMidnight := time.Date(2026, 3, 10, 2, 15, 0, 0, time.UTC)
	morning := time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)

	d9 := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	d10 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, d9, cal.OperatingDate(3, beforeMidnight))
	assert.Equal(t, d9, cal.OperatingDate(3, afterMidnight))
	assert.Equal(t, d10, cal.OperatingDate(3, morning))
	assert.Equal(t, d10, cal.OperatingDate(1, afterMidnight), "los turnos diurnos usan la fecha calendario")
}

func TestValidateShift(t *testing.T) {
	assert.NoError(t, count.ValidateShift(1))
	assert.NoError(t, count.ValidateShift(3))
	assert.ErrorIs(t, count.ValidateShift(0), domain.ErrValidation)
	assert.ErrorIs(t, count.ValidateShift(4), domain.ErrValidation)
}
