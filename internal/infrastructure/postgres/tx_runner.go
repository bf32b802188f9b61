package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Conteo-api/internal/application/review"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ review.SubmissionTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunSubmission inicia una transacción, ejecuta fn con historial y reportes atados a la tx
// y hace Commit o Rollback.
func (r *TxRunner) RunSubmission(ctx context.Context, fn func(
	history repository.HistoryRepository,
	reports repository.ReportRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewHistoryRepository(tx), NewReportRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
