package overview_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/application/overview"
	"github.com/jhoicas/Conteo-api/internal/application/review"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/infrastructure/memstore"
	"github.com/jhoicas/Conteo-api/pkg/logger"
)

var (
	cal = count.Calendar{OvernightShift: 3, CutoffHour: 6, Location: time.UTC}
	ctx = context.Background()
)

func at(day, hour int) func() time.Time {
	return func() time.Time { return time.Date(2026, 3, day, hour, 0, 0, 0, time.UTC) }
}

type env struct {
	db         *memstore.DB
	distribute *counting.DistributeUseCase
	recorder   *counting.RecorderUseCase
	lines      *counting.LinesQueryUseCase
	agg        *overview.AggregatorUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := memstore.New()
	db.AddStore(&entity.Store{ID: "s-b", Code: "BEE", Name: "Bee", Active: true})
	db.AddStore(&entity.Store{ID: "s-a", Code: "ANT", Name: "Ant", Active: true})
	db.AddStore(&entity.Store{ID: "s-x", Code: "OLD", Name: "Old", Active: false})
	db.AddProduct(&entity.Product{ID: "p1", Barcode: "111", Name: "Arroz", Category: "Granos", UnitPrice: decimal.NewFromInt(100), Active: true})
	db.AddProduct(&entity.Product{ID: "p2", Barcode: "222", Name: "Frijol", Category: "Granos", UnitPrice: decimal.NewFromInt(200), Active: true})
	db.AddProduct(&entity.Product{ID: "p3", Barcode: "333", Name: "Leche", Category: "Lácteos", UnitPrice: decimal.NewFromInt(300), Active: true})

	e := &env{
		db:         db,
		distribute: counting.NewDistributeUseCase(db.Stores(), db.Products(), db.CountLines(), cal, logger.Nop()),
		recorder:   counting.NewRecorderUseCase(db.CountLines(), count.DefaultLimits(), logger.Nop()),
		lines:      counting.NewLinesQueryUseCase(db.CountLines(), cal),
		agg:        overview.NewAggregatorUseCase(db.Stores(), db.CountLines(), db.Reports(), cal),
	}
	e.agg.SetClock(at(10, 12))
	return e
}

func (e *env) distributeAt(t *testing.T, clock func() time.Time, storeID string, shift int) []dto.CountLineResponse {
	t.Helper()
	e.distribute.SetClock(clock)
	e.lines.SetClock(clock)
	_, err := e.distribute.Distribute(ctx, dto.DistributeInput{StoreID: storeID, Shift: shift, ActorRole: access.RoleSystem})
	require.NoError(t, err)
	list, err := e.lines.List(ctx, storeID, shift, "")
	require.NoError(t, err)
	return list.Items
}

func (e *env) count(t *testing.T, lineID string, qty int) {
	t.Helper()
	_, err := e.recorder.UpdateField(ctx, dto.UpdateFieldInput{
		LineID: lineID, Field: count.FieldActualQty, Value: float64(qty), ActorID: "emp", ActorRole: access.RoleStaff,
	})
	require.NoError(t, err)
}

func slotOf(t *testing.T, resp *dto.OverviewResponse, storeID string, shift int) dto.SlotOverviewDTO {
	t.Helper()
	var found []dto.SlotOverviewDTO
	for _, s := range resp.PerStoreShift {
		if s.StoreID == storeID && s.Shift == shift {
			found = append(found, s)
		}
	}
	require.Len(t, found, 1, "cada (tienda, turno) aparece una sola vez")
	return found[0]
}

func TestOverview_DiaVacioTieneTodosLosTurnos(t *testing.T) {
	e := newEnv(t)
	resp, err := e.agg.Overview(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-03-10", resp.Date)
	assert.Equal(t, 2, resp.Stats.Stores)
	assert.Equal(t, 6, resp.Stats.Slots)
	require.Len(t, resp.PerStoreShift, 6)
	assert.Equal(t, "ANT", resp.PerStoreShift[0].StoreCode, "orden por código de tienda")
	for _, s := range resp.PerStoreShift {
		assert.Zero(t, s.Total)
		assert.Zero(t, s.CompletionPct)
		assert.Nil(t, s.ReportStatus)
		assert.True(t, s.DiscrepancyValue.IsZero())
	}
}

func TestOverview_NocturnoDelDiaAnterior(t *testing.T) {
	e := newEnv(t)
	// Turno nocturno distribuido el 9 a las 23:00: queda archivado bajo el 9.
	items := e.distributeAt(t, at(9, 23), "s-b", 3)
	require.Len(t, items, 3)
	e.count(t, items[0].ID, 1)

	resp, err := e.agg.Overview(ctx, "2026-03-10")
	require.NoError(t, err)
	slot := slotOf(t, resp, "s-b", 3)
	assert.Equal(t, "2026-03-09", slot.Date)
	assert.Equal(t, 3, slot.Total)
	assert.Equal(t, 1, slot.Checked)
	assert.Equal(t, 1, slot.Over)
	assert.InDelta(t, 33.3, slot.CompletionPct, 0.001)
	assert.True(t, decimal.NewFromInt(100).Equal(slot.DiscrepancyValue))

	// Los turnos diurnos del 9 no se arrastran al 10.
	e.distributeAt(t, at(9, 10), "s-b", 1)
	resp, err = e.agg.Overview(ctx, "2026-03-10")
	require.NoError(t, err)
	assert.Zero(t, slotOf(t, resp, "s-b", 1).Total)
	assert.Equal(t, 3, resp.Stats.Total)
}

func TestOverview_NocturnoPrefiereDiaSolicitado(t *testing.T) {
	e := newEnv(t)
	e.distributeAt(t, at(9, 23), "s-b", 3)
	today := e.distributeAt(t, at(10, 22), "s-b", 3)
	e.count(t, today[0].ID, 0)
	e.count(t, today[1].ID, 0)

	resp, err := e.agg.Overview(ctx, "2026-03-10")
	require.NoError(t, err)
	slot := slotOf(t, resp, "s-b", 3)
	assert.Equal(t, "2026-03-10", slot.Date)
	assert.Equal(t, 2, slot.Matched)
	assert.Equal(t, 3, resp.Stats.Total, "solo una fuente por turno")
}

func TestOverview_EstadisticasYEstadoDeReporte(t *testing.T) {
	e := newEnv(t)
	a := e.distributeAt(t, at(10, 8), "s-a", 1)
	e.count(t, a[0].ID, 0) // MATCHED
	e.count(t, a[1].ID, 3) // OVER  +3 × 200
	b := e.distributeAt(t, at(10, 8), "s-b", 2)
	e.count(t, b[2].ID, 0) // MATCHED

	// Un esperado > 0 en Leche de ANT deja una línea MISSING.
	_, err := e.recorder.UpdateField(ctx, dto.UpdateFieldInput{
		LineID: a[2].ID, Field: count.FieldExpectedQty, Value: float64(2), ActorRole: access.RoleSupervisor,
	})
	require.NoError(t, err)
	e.count(t, a[2].ID, 1) // MISSING -1 × 300

	submit := review.NewSubmitUseCase(e.db.TxRunner(), e.db.Stores(), e.db.CountLines(), e.db.Reports(), cal, logger.Nop())
	submit.SetClock(at(10, 9))
	_, err = submit.Submit(ctx, dto.SubmitInput{StoreID: "s-a", Shift: 1, ActorID: "emp", ActorRole: access.RoleStaff})
	require.NoError(t, err)

	resp, err := e.agg.Overview(ctx, "")
	require.NoError(t, err)
	st := resp.Stats
	assert.Equal(t, 6, st.Total)
	assert.Equal(t, 4, st.Checked)
	assert.Equal(t, 2, st.Matched)
	assert.Equal(t, 1, st.Missing)
	assert.Equal(t, 1, st.Over)
	assert.InDelta(t, 66.7, st.CompletionPct, 0.001)
	assert.True(t, decimal.NewFromInt(300).Equal(st.DiscrepancyValue), st.DiscrepancyValue.String())
	assert.Equal(t, 1, st.Submitted)
	assert.Equal(t, 1, st.Pending)

	slot := slotOf(t, resp, "s-a", 1)
	require.NotNil(t, slot.ReportStatus)
	assert.Equal(t, entity.ReportStatusPending, *slot.ReportStatus)
	assert.Nil(t, slotOf(t, resp, "s-b", 2).ReportStatus)
}

func TestOverview_FechaInvalida(t *testing.T) {
	e := newEnv(t)
	_, err := e.agg.Overview(ctx, "10-03-2026")
	require.Error(t, err)
}
