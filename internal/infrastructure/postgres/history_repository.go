package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.HistoryRepository = (*HistoryRepo)(nil)

// HistoryRepo historial inmutable de conteos.
type HistoryRepo struct {
	q Querier
}

// NewHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewHistoryRepository(q Querier) *HistoryRepo {
	return &HistoryRepo{q: q}
}

// UpsertBatch inserta o reemplaza por (tienda, producto, fecha, turno) en un solo round-trip.
func (r *HistoryRepo) UpsertBatch(ctx context.Context, records []entity.HistoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	query := `
		INSERT INTO inventory_history (store_id, product_id, count_date, shift, barcode, product_name, category,
			unit_price, expected_qty, actual_qty, diff, status, note, discrepancy_reason, checked_by, checked_at,
			snapshot_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (store_id, product_id, count_date, shift) DO UPDATE SET
			barcode = EXCLUDED.barcode, product_name = EXCLUDED.product_name, category = EXCLUDED.category,
			unit_price = EXCLUDED.unit_price, expected_qty = EXCLUDED.expected_qty,
			actual_qty = EXCLUDED.actual_qty, diff = EXCLUDED.diff, status = EXCLUDED.status,
			note = EXCLUDED.note, discrepancy_reason = EXCLUDED.discrepancy_reason,
			checked_by = EXCLUDED.checked_by, checked_at = EXCLUDED.checked_at, snapshot_at = EXCLUDED.snapshot_at`
	batch := &pgx.Batch{}
	for _, h := range records {
		batch.Queue(query, h.StoreID, h.ProductID, dateParam(h.Date), h.Shift, h.Barcode, h.ProductName,
			h.Category, h.UnitPrice, h.ExpectedQty, h.ActualQty, h.Diff, h.Status, h.Note,
			h.DiscrepancyReason, h.CheckedBy, h.CheckedAt, h.SnapshotAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range records {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert history: %w", err)
		}
	}
	return nil
}

// ListBySlot historial de (tienda, turno, fecha).
func (r *HistoryRepo) ListBySlot(ctx context.Context, storeID string, shift int, date time.Time) ([]entity.HistoryRecord, error) {
	query := `
		SELECT store_id, product_id, count_date, shift, barcode, product_name, category, unit_price,
			expected_qty, actual_qty, diff, status, note, discrepancy_reason, checked_by, checked_at, snapshot_at
		FROM inventory_history
		WHERE store_id = $1 AND shift = $2 AND count_date = $3::date
		ORDER BY category, product_name, product_id`
	rows, err := r.q.Query(ctx, query, storeID, shift, dateParam(date))
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()
	list := make([]entity.HistoryRecord, 0)
	for rows.Next() {
		var h entity.HistoryRecord
		if err := rows.Scan(&h.StoreID, &h.ProductID, &h.Date, &h.Shift, &h.Barcode, &h.ProductName,
			&h.Category, &h.UnitPrice, &h.ExpectedQty, &h.ActualQty, &h.Diff, &h.Status, &h.Note,
			&h.DiscrepancyReason, &h.CheckedBy, &h.CheckedAt, &h.SnapshotAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		list = append(list, h)
	}
	return list, rows.Err()
}

// DeleteBySlot borra el historial de (tienda, turno, fecha).
func (r *HistoryRepo) DeleteBySlot(ctx context.Context, storeID string, shift int, date time.Time) (int, error) {
	tag, err := r.q.Exec(ctx,
		`DELETE FROM inventory_history WHERE store_id = $1 AND shift = $2 AND count_date = $3::date`,
		storeID, shift, dateParam(date))
	if err != nil {
		return 0, fmt.Errorf("delete history: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
