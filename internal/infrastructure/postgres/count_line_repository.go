package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.CountLineRepository = (*CountLineRepo)(nil)

// CountLineRepo líneas de conteo sobre PostgreSQL.
type CountLineRepo struct {
	q Querier
}

// NewCountLineRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCountLineRepository(q Querier) *CountLineRepo {
	return &CountLineRepo{q: q}
}

const countLineColumns = `cl.id, cl.store_id, cl.product_id, cl.shift, cl.count_date, cl.expected_qty, cl.actual_qty,
	cl.diff, cl.status, cl.note, cl.discrepancy_reason, cl.last_synced_at, cl.checked_by, cl.checked_at,
	cl.version, cl.created_at, cl.updated_at`

func scanLineDest(l *entity.CountLine) []any {
	return []any{&l.ID, &l.StoreID, &l.ProductID, &l.Shift, &l.Date, &l.ExpectedQty, &l.ActualQty,
		&l.Diff, &l.Status, &l.Note, &l.DiscrepancyReason, &l.LastSyncedAt, &l.CheckedBy, &l.CheckedAt,
		&l.Version, &l.CreatedAt, &l.UpdatedAt}
}

// InsertMissing inserta en un batch con ON CONFLICT DO NOTHING sobre la llave natural.
func (r *CountLineRepo) InsertMissing(ctx context.Context, lines []*entity.CountLine) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}
	query := `
		INSERT INTO count_lines (id, store_id, product_id, shift, count_date, expected_qty, actual_qty, diff,
			status, note, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, 1, $11, $12)
		ON CONFLICT (store_id, product_id, shift, count_date) DO NOTHING`
	batch := &pgx.Batch{}
	for _, l := range lines {
		batch.Queue(query, l.ID, l.StoreID, l.ProductID, l.Shift, dateParam(l.Date), l.ExpectedQty,
			l.ActualQty, l.Diff, l.Status, l.Note, l.CreatedAt, l.UpdatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	created := 0
	for range lines {
		tag, err := br.Exec()
		if err != nil {
			return created, fmt.Errorf("insert count line: %w", err)
		}
		created += int(tag.RowsAffected())
	}
	return created, nil
}

// GetByID obtiene una línea por ID.
func (r *CountLineRepo) GetByID(ctx context.Context, id string) (*entity.CountLine, error) {
	var l entity.CountLine
	err := r.q.QueryRow(ctx, `SELECT `+countLineColumns+` FROM count_lines cl WHERE cl.id = $1`, id).
		Scan(scanLineDest(&l)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get count line: %w", err)
	}
	return &l, nil
}

// ListBySlot lista las líneas del turno con los datos del producto.
func (r *CountLineRepo) ListBySlot(ctx context.Context, storeID string, shift int, date time.Time) ([]*entity.CountLineView, error) {
	query := `
		SELECT ` + countLineColumns + `, p.barcode, p.name, p.category, p.unit, p.unit_price
		FROM count_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.store_id = $1 AND cl.shift = $2 AND cl.count_date = $3::date
		ORDER BY p.category, p.name, cl.product_id`
	rows, err := r.q.Query(ctx, query, storeID, shift, dateParam(date))
	if err != nil {
		return nil, fmt.Errorf("list count lines: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.CountLineView, 0)
	for rows.Next() {
		var v entity.CountLineView
		dest := append(scanLineDest(&v.CountLine), &v.Barcode, &v.ProductName, &v.Category, &v.Unit, &v.UnitPrice)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan count line: %w", err)
		}
		list = append(list, &v)
	}
	return list, rows.Err()
}

// Update escribe los campos mutables condicionado a la versión leída.
func (r *CountLineRepo) Update(ctx context.Context, line *entity.CountLine) error {
	query := `
		UPDATE count_lines SET expected_qty = $3, actual_qty = $4, diff = $5, status = $6, note = $7,
			discrepancy_reason = $8, checked_by = $9, checked_at = $10, updated_at = $11, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version`
	var version int
	err := r.q.QueryRow(ctx, query,
		line.ID, line.Version, line.ExpectedQty, line.ActualQty, line.Diff, line.Status, line.Note,
		line.DiscrepancyReason, line.CheckedBy, line.CheckedAt, line.UpdatedAt,
	).Scan(&version)
	if err == nil {
		line.Version = version
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update count line: %w", err)
	}
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM count_lines WHERE id = $1)`, line.ID).Scan(&exists); err != nil {
		return fmt.Errorf("update count line: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: línea %s", domain.ErrNotFound, line.ID)
	}
	return fmt.Errorf("%w: línea %s modificada concurrentemente", domain.ErrConflict, line.ID)
}

// ApplySync un UPDATE por lote, condicionado a que actual_qty no haya cambiado.
func (r *CountLineRepo) ApplySync(ctx context.Context, b repository.SyncBatch) ([]string, error) {
	if len(b.IDs) == 0 {
		return nil, nil
	}
	query := `
		UPDATE count_lines SET expected_qty = $2, diff = $3, status = $4, last_synced_at = $5,
			updated_at = $5, version = version + 1
		WHERE id = ANY($1::uuid[]) AND actual_qty IS NOT DISTINCT FROM $6::int
		RETURNING id`
	rows, err := r.q.Query(ctx, query, b.IDs, b.ExpectedQty, b.Diff, b.Status, b.SyncedAt, b.ActualQty)
	if err != nil {
		return nil, fmt.Errorf("apply sync: %w", err)
	}
	defer rows.Close()
	ids := make([]string, 0, len(b.IDs))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan sync id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SlotStats agrega por (tienda, turno, fecha) para las fechas indicadas.
func (r *CountLineRepo) SlotStats(ctx context.Context, dates []time.Time) ([]repository.SlotStats, error) {
	query := `
		SELECT cl.store_id, cl.shift, cl.count_date,
			COUNT(*),
			COUNT(cl.actual_qty),
			COUNT(*) FILTER (WHERE cl.status = 'MATCHED'),
			COUNT(*) FILTER (WHERE cl.status = 'MISSING'),
			COUNT(*) FILTER (WHERE cl.status = 'OVER'),
			COALESCE(SUM(cl.diff * p.unit_price), 0)
		FROM count_lines cl
		JOIN products p ON p.id = cl.product_id
		WHERE cl.count_date = ANY($1::date[])
		GROUP BY cl.store_id, cl.shift, cl.count_date`
	rows, err := r.q.Query(ctx, query, dateParams(dates))
	if err != nil {
		return nil, fmt.Errorf("slot stats: %w", err)
	}
	defer rows.Close()
	var list []repository.SlotStats
	for rows.Next() {
		var s repository.SlotStats
		if err := rows.Scan(&s.StoreID, &s.Shift, &s.Date, &s.Total, &s.Checked,
			&s.Matched, &s.Missing, &s.Over, &s.DiscrepancyValue); err != nil {
			return nil, fmt.Errorf("scan slot stats: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
