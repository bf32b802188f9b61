package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo reportes de inventario sobre PostgreSQL.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador. Pasar pool o tx (Querier).
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

const reportColumns = `id, store_id, shift, report_date, status, submitted_by, submitted_at,
	reviewed_by, reviewed_at, rejection_reason, counted_lines, total_lines`

func scanReport(row pgx.Row) (*entity.InventoryReport, error) {
	var r entity.InventoryReport
	err := row.Scan(&r.ID, &r.StoreID, &r.Shift, &r.Date, &r.Status, &r.SubmittedBy, &r.SubmittedAt,
		&r.ReviewedBy, &r.ReviewedAt, &r.RejectionReason, &r.CountedLines, &r.TotalLines)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserta el reporte; la llave única (tienda, fecha, turno) protege ante envíos concurrentes.
func (r *ReportRepo) Create(ctx context.Context, rep *entity.InventoryReport) error {
	query := `
		INSERT INTO inventory_reports (id, store_id, shift, report_date, status, submitted_by, submitted_at,
			counted_lines, total_lines)
		VALUES ($1, $2, $3, $4::date, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, rep.ID, rep.StoreID, rep.Shift, dateParam(rep.Date), rep.Status,
		rep.SubmittedBy, rep.SubmittedAt, rep.CountedLines, rep.TotalLines)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tienda %s turno %d fecha %s",
				domain.ErrAlreadySubmitted, rep.StoreID, rep.Shift, dateParam(rep.Date))
		}
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// GetByID obtiene un reporte por ID.
func (r *ReportRepo) GetByID(ctx context.Context, id string) (*entity.InventoryReport, error) {
	rep, err := scanReport(r.q.QueryRow(ctx, `SELECT `+reportColumns+` FROM inventory_reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isInvalidID(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return rep, nil
}

// GetBySlot obtiene el reporte de (tienda, turno, fecha), si existe.
func (r *ReportRepo) GetBySlot(ctx context.Context, storeID string, shift int, date time.Time) (*entity.InventoryReport, error) {
	rep, err := scanReport(r.q.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM inventory_reports WHERE store_id = $1 AND shift = $2 AND report_date = $3::date`,
		storeID, shift, dateParam(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get report by slot: %w", err)
	}
	return rep, nil
}

// List lista reportes por fechas y estado, más recientes primero.
func (r *ReportRepo) List(ctx context.Context, f repository.ReportFilter) ([]*entity.InventoryReport, error) {
	var (
		where []string
		args  []any
	)
	if len(f.Dates) > 0 {
		args = append(args, dateParams(f.Dates))
		where = append(where, fmt.Sprintf("report_date = ANY($%d::date[])", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.StoreID != "" {
		args = append(args, f.StoreID)
		where = append(where, fmt.Sprintf("store_id::text = $%d", len(args)))
	}
	query := `SELECT ` + reportColumns + ` FROM inventory_reports`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryReport, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		list = append(list, rep)
	}
	return list, rows.Err()
}

// Transition aplica la decisión solo si el reporte sigue en PENDING.
func (r *ReportRepo) Transition(ctx context.Context, t entity.ReportTransition) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_reports
		SET status = $2, reviewed_by = $3, reviewed_at = $4, rejection_reason = $5
		WHERE id = $1 AND status = 'PENDING'`,
		t.ReportID, t.Status, t.ReviewedBy, t.ReviewedAt, t.RejectionReason)
	if err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("transition report: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// Delete elimina el reporte.
func (r *ReportRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_reports WHERE id = $1`, id)
	if err != nil {
		if isInvalidID(err) {
			return false, nil
		}
		return false, fmt.Errorf("delete report: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
