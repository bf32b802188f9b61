package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var (
	_ repository.ReportRepository  = (*ReportRepo)(nil)
	_ repository.HistoryRepository = (*HistoryRepo)(nil)
	_ repository.StockCommitter    = (*Committer)(nil)
)

// ReportRepo reportes en memoria.
type ReportRepo struct{ db *DB }

// Reports devuelve el repositorio de reportes.
func (db *DB) Reports() *ReportRepo { return &ReportRepo{db: db} }

func copyReport(r *entity.InventoryReport) *entity.InventoryReport {
	cp := *r
	cp.ReviewedBy = copyStr(r.ReviewedBy)
	cp.ReviewedAt = copyTime(r.ReviewedAt)
	cp.RejectionReason = copyStr(r.RejectionReason)
	return &cp
}

// createReportLocked inserta respetando la unicidad (tienda, turno, fecha). Requiere db.mu tomado.
func (db *DB) createReportLocked(report *entity.InventoryReport) error {
	if db.FailReportCreate != nil {
		return db.FailReportCreate
	}
	for _, r := range db.reports {
		if r.StoreID == report.StoreID && r.Shift == report.Shift && day(r.Date) == day(report.Date) {
			return fmt.Errorf("%w: reporte %s", domain.ErrAlreadySubmitted, r.ID)
		}
	}
	db.reports[report.ID] = copyReport(report)
	return nil
}

// Create falla con domain.ErrAlreadySubmitted si el turno ya tiene reporte.
func (r *ReportRepo) Create(_ context.Context, report *entity.InventoryReport) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	return r.db.createReportLocked(report)
}

// GetByID devuelve una copia del reporte o nil, nil.
func (r *ReportRepo) GetByID(_ context.Context, id string) (*entity.InventoryReport, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rep, ok := r.db.reports[id]
	if !ok {
		return nil, nil
	}
	return copyReport(rep), nil
}

// GetBySlot obtiene el reporte de (tienda, turno, fecha).
func (r *ReportRepo) GetBySlot(_ context.Context, storeID string, shift int, date time.Time) (*entity.InventoryReport, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, rep := range r.db.reports {
		if rep.StoreID == storeID && rep.Shift == shift && day(rep.Date) == day(date) {
			return copyReport(rep), nil
		}
	}
	return nil, nil
}

// List filtra por fechas, estado y tienda; más recientes primero.
func (r *ReportRepo) List(_ context.Context, f repository.ReportFilter) ([]*entity.InventoryReport, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	dates := map[string]bool{}
	for _, d := range f.Dates {
		dates[day(d)] = true
	}
	out := make([]*entity.InventoryReport, 0)
	for _, rep := range r.db.reports {
		if len(dates) > 0 && !dates[day(rep.Date)] {
			continue
		}
		if f.Status != "" && rep.Status != f.Status {
			continue
		}
		if f.StoreID != "" && rep.StoreID != f.StoreID {
			continue
		}
		out = append(out, copyReport(rep))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out, nil
}

// Transition aplica la decisión solo desde PENDING.
func (r *ReportRepo) Transition(_ context.Context, t entity.ReportTransition) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	rep, ok := r.db.reports[t.ReportID]
	if !ok || rep.Status != entity.ReportStatusPending {
		return false, nil
	}
	by, at := t.ReviewedBy, t.ReviewedAt
	rep.Status = t.Status
	rep.ReviewedBy = &by
	rep.ReviewedAt = &at
	rep.RejectionReason = copyStr(t.RejectionReason)
	return true, nil
}

// Delete elimina el reporte; false si no existía.
func (r *ReportRepo) Delete(_ context.Context, id string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.reports[id]; !ok {
		return false, nil
	}
	delete(r.db.reports, id)
	return true, nil
}

// HistoryRepo historial en memoria.
type HistoryRepo struct{ db *DB }

// History devuelve el repositorio de historial.
func (db *DB) History() *HistoryRepo { return &HistoryRepo{db: db} }

func (db *DB) upsertHistoryLocked(records []entity.HistoryRecord) {
	for _, h := range records {
		db.history[historyKey{h.StoreID, h.ProductID, day(h.Date), h.Shift}] = h
	}
}

// UpsertBatch reemplaza por llave (tienda, producto, fecha, turno).
func (r *HistoryRepo) UpsertBatch(_ context.Context, records []entity.HistoryRecord) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	r.db.upsertHistoryLocked(records)
	return nil
}

// ListBySlot devuelve el historial del turno.
func (r *HistoryRepo) ListBySlot(_ context.Context, storeID string, shift int, date time.Time) ([]entity.HistoryRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	out := make([]entity.HistoryRecord, 0)
	for k, h := range r.db.history {
		if k.storeID == storeID && k.shift == shift && k.date == day(date) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].ProductName < out[j].ProductName
	})
	return out, nil
}

// DeleteBySlot borra el historial del turno. FailHistoryDelete simula un fallo.
func (r *HistoryRepo) DeleteBySlot(_ context.Context, storeID string, shift int, date time.Time) (int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.FailHistoryDelete != nil {
		return 0, r.db.FailHistoryDelete
	}
	n := 0
	for k := range r.db.history {
		if k.storeID == storeID && k.shift == shift && k.date == day(date) {
			delete(r.db.history, k)
			n++
		}
	}
	return n, nil
}

// Committer confirmación de stock en memoria; idempotente por reporte.
type Committer struct{ db *DB }

// Committer devuelve el confirmador de stock.
func (db *DB) Committer() *Committer { return &Committer{db: db} }

// CommitReport confirma el stock del reporte una sola vez por id.
func (c *Committer) CommitReport(_ context.Context, reportID string) error {
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	c.db.CommitCalls[reportID]++
	if c.db.FailCommit != nil {
		return c.db.FailCommit
	}
	if _, done := c.db.commits[reportID]; done {
		return nil
	}
	rep, ok := c.db.reports[reportID]
	if !ok || rep.Status != entity.ReportStatusApproved {
		return fmt.Errorf("memstore: reporte %s no aprobado", reportID)
	}
	for k, h := range c.db.history {
		if k.storeID == rep.StoreID && k.shift == rep.Shift && k.date == day(rep.Date) && h.ActualQty != nil {
			c.db.stock[stockKey{rep.StoreID, h.ProductID}] = *h.ActualQty
		}
	}
	c.db.commits[reportID] = time.Now()
	return nil
}
