package memstore

import (
	"context"
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// TxRunner simula una transacción: las escrituras se acumulan y se aplican juntas al final,
// bajo un único lock, solo si fn no falló y el reporte respeta la unicidad.
type TxRunner struct{ db *DB }

// TxRunner devuelve el ejecutor de transacciones.
func (db *DB) TxRunner() *TxRunner { return &TxRunner{db: db} }

// RunSubmission acumula las escrituras de fn y las aplica juntas solo si fn no falla.
func (t *TxRunner) RunSubmission(ctx context.Context, fn func(
	history repository.HistoryRepository,
	reports repository.ReportRepository,
) error) error {
	tx := &txState{db: t.db}
	if err := fn(&txHistory{tx}, &txReports{tx}); err != nil {
		return err
	}
	t.db.mu.Lock()
	defer t.db.mu.Unlock()
	for _, r := range tx.reports {
		if err := t.db.createReportLocked(r); err != nil {
			return err
		}
	}
	t.db.upsertHistoryLocked(tx.history)
	return nil
}

type txState struct {
	db      *DB
	history []entity.HistoryRecord
	reports []*entity.InventoryReport
}

type txHistory struct{ tx *txState }

func (h *txHistory) UpsertBatch(_ context.Context, records []entity.HistoryRecord) error {
	h.tx.history = append(h.tx.history, records...)
	return nil
}

func (h *txHistory) ListBySlot(ctx context.Context, storeID string, shift int, date time.Time) ([]entity.HistoryRecord, error) {
	return h.tx.db.History().ListBySlot(ctx, storeID, shift, date)
}

func (h *txHistory) DeleteBySlot(ctx context.Context, storeID string, shift int, date time.Time) (int, error) {
	return h.tx.db.History().DeleteBySlot(ctx, storeID, shift, date)
}

type txReports struct{ tx *txState }

func (r *txReports) Create(_ context.Context, report *entity.InventoryReport) error {
	if r.tx.db.FailReportCreate != nil {
		return r.tx.db.FailReportCreate
	}
	r.tx.reports = append(r.tx.reports, copyReport(report))
	return nil
}

func (r *txReports) GetByID(ctx context.Context, id string) (*entity.InventoryReport, error) {
	return r.tx.db.Reports().GetByID(ctx, id)
}

func (r *txReports) GetBySlot(ctx context.Context, storeID string, shift int, date time.Time) (*entity.InventoryReport, error) {
	return r.tx.db.Reports().GetBySlot(ctx, storeID, shift, date)
}

func (r *txReports) List(ctx context.Context, f repository.ReportFilter) ([]*entity.InventoryReport, error) {
	return r.tx.db.Reports().List(ctx, f)
}

func (r *txReports) Transition(ctx context.Context, t entity.ReportTransition) (bool, error) {
	return r.tx.db.Reports().Transition(ctx, t)
}

func (r *txReports) Delete(ctx context.Context, id string) (bool, error) {
	return r.tx.db.Reports().Delete(ctx, id)
}
