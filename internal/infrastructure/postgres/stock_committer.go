package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

var _ repository.StockCommitter = (*StockCommitter)(nil)

// StockCommitter delega en el procedimiento commit_inventory_report, que copia las cantidades
// contadas del historial a store_stock y registra el reporte en stock_commits (idempotente).
type StockCommitter struct {
	q Querier
}

// NewStockCommitter construye el adaptador.
func NewStockCommitter(q Querier) *StockCommitter {
	return &StockCommitter{q: q}
}

// CommitReport ejecuta la confirmación de stock del reporte.
func (c *StockCommitter) CommitReport(ctx context.Context, reportID string) error {
	if _, err := c.q.Exec(ctx, `SELECT commit_inventory_report($1)`, reportID); err != nil {
		return fmt.Errorf("commit inventory report: %w", err)
	}
	return nil
}
