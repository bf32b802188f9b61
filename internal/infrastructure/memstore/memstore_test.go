package memstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
	"github.com/jhoicas/Conteo-api/internal/infrastructure/memstore"
)

var (
	ctx = context.Background()
	d10 = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
)

func seedLine(t *testing.T, db *memstore.DB, id, productID string) *entity.CountLine {
	t.Helper()
	l := &entity.CountLine{ID: id, StoreID: "s1", ProductID: productID, Shift: 1, Date: d10, Status: entity.CountStatusPending}
	n, err := db.CountLines().InsertMissing(ctx, []*entity.CountLine{l})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	got, err := db.CountLines().GetByID(ctx, id)
	require.NoError(t, err)
	return got
}

func TestInsertMissing_OmiteLlavesExistentes(t *testing.T) {
	db := memstore.New()
	seedLine(t, db, "l1", "p1")
	dup := &entity.CountLine{ID: "otro", StoreID: "s1", ProductID: "p1", Shift: 1, Date: d10.Add(15 * time.Hour)}
	n, err := db.CountLines().InsertMissing(ctx, []*entity.CountLine{dup})
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, db.LineCount())
}

func TestUpdate_ConflictoDeVersion(t *testing.T) {
	db := memstore.New()
	repo := db.CountLines()
	first := seedLine(t, db, "l1", "p1")
	stale, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)

	q := 3
	first.ActualQty = &q
	require.NoError(t, repo.Update(ctx, first))
	assert.Equal(t, 2, first.Version)

	stale.Note = "tarde"
	assert.True(t, errors.Is(repo.Update(ctx, stale), domain.ErrConflict))

	got, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Empty(t, got.Note)
	assert.Equal(t, 3, *got.ActualQty)

	assert.True(t, errors.Is(repo.Update(ctx, &entity.CountLine{ID: "nope"}), domain.ErrNotFound))
}

func TestUpdate_ConservaLlaveNatural(t *testing.T) {
	db := memstore.New()
	repo := db.CountLines()
	l := seedLine(t, db, "l1", "p1")
	l.StoreID = "s2"
	l.Shift = 2
	require.NoError(t, repo.Update(ctx, l))
	got, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.StoreID)
	assert.Equal(t, 1, got.Shift)
}

func TestApplySync_SoloFilasConMismoConteo(t *testing.T) {
	db := memstore.New()
	repo := db.CountLines()
	seedLine(t, db, "l1", "p1")
	l2 := seedLine(t, db, "l2", "p2")
	q := 4
	l2.ActualQty = &q
	require.NoError(t, repo.Update(ctx, l2))

	synced := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	ids, err := repo.ApplySync(ctx, repository.SyncBatch{
		IDs:         []string{"l1", "l2", "missing"},
		ExpectedQty: 5,
		Status:      entity.CountStatusPending,
		SyncedAt:    synced,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"l1"}, ids)

	got, err := repo.GetByID(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, 5, got.ExpectedQty)
	assert.Equal(t, synced, *got.LastSyncedAt)
	assert.Equal(t, 2, got.Version)

	got, err = repo.GetByID(ctx, "l2")
	require.NoError(t, err)
	assert.Equal(t, 0, got.ExpectedQty)
}

func TestTransition_SoloDesdePending(t *testing.T) {
	db := memstore.New()
	reports := db.Reports()
	require.NoError(t, reports.Create(ctx, &entity.InventoryReport{ID: "r1", StoreID: "s1", Shift: 1, Date: d10, Status: entity.ReportStatusPending}))

	tr := entity.ReportTransition{ReportID: "r1", Status: entity.ReportStatusApproved, ReviewedBy: "sup", ReviewedAt: d10}
	ok, err := reports.Transition(ctx, tr)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = reports.Transition(ctx, tr)
	require.NoError(t, err)
	assert.False(t, ok)

	err = reports.Create(ctx, &entity.InventoryReport{ID: "r2", StoreID: "s1", Shift: 1, Date: d10, Status: entity.ReportStatusPending})
	assert.True(t, errors.Is(err, domain.ErrAlreadySubmitted))
}

func TestRunSubmission_EsAtomica(t *testing.T) {
	db := memstore.New()
	records := []entity.HistoryRecord{
		{StoreID: "s1", ProductID: "p1", Date: d10, Shift: 1},
		{StoreID: "s1", ProductID: "p2", Date: d10, Shift: 1},
	}
	report := &entity.InventoryReport{ID: "r1", StoreID: "s1", Shift: 1, Date: d10, Status: entity.ReportStatusPending}

	boom := errors.New("boom")
	err := db.TxRunner().RunSubmission(ctx, func(h repository.HistoryRepository, r repository.ReportRepository) error {
		require.NoError(t, h.UpsertBatch(ctx, records))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, db.HistoryCount())

	db.FailReportCreate = memstore.ErrInjected
	err = db.TxRunner().RunSubmission(ctx, func(h repository.HistoryRepository, r repository.ReportRepository) error {
		require.NoError(t, h.UpsertBatch(ctx, records))
		return r.Create(ctx, report)
	})
	assert.ErrorIs(t, err, memstore.ErrInjected)
	assert.Zero(t, db.HistoryCount())

	db.FailReportCreate = nil
	err = db.TxRunner().RunSubmission(ctx, func(h repository.HistoryRepository, r repository.ReportRepository) error {
		require.NoError(t, h.UpsertBatch(ctx, records))
		require.NoError(t, h.UpsertBatch(ctx, records[:1]))
		return r.Create(ctx, report)
	})
	require.NoError(t, err)
	assert.Equal(t, 2, db.HistoryCount())

	got, err := db.Reports().GetByID(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestCommitter_IdempotenteYRequiereAprobacion(t *testing.T) {
	db := memstore.New()
	q := 7
	require.NoError(t, db.History().UpsertBatch(ctx, []entity.HistoryRecord{
		{StoreID: "s1", ProductID: "p1", Date: d10, Shift: 1, ActualQty: &q},
		{StoreID: "s1", ProductID: "p2", Date: d10, Shift: 1},
	}))
	require.NoError(t, db.Reports().Create(ctx, &entity.InventoryReport{ID: "r1", StoreID: "s1", Shift: 1, Date: d10, Status: entity.ReportStatusPending}))

	assert.Error(t, db.Committer().CommitReport(ctx, "r1"))

	_, err := db.Reports().Transition(ctx, entity.ReportTransition{ReportID: "r1", Status: entity.ReportStatusApproved})
	require.NoError(t, err)
	require.NoError(t, db.Committer().CommitReport(ctx, "r1"))
	require.NoError(t, db.Committer().CommitReport(ctx, "r1"))

	qty, ok := db.StockOf("s1", "p1")
	require.True(t, ok)
	assert.Equal(t, 7, qty)
	_, ok = db.StockOf("s1", "p2")
	assert.False(t, ok, "líneas sin contar no tocan el stock")
}
