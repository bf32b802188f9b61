package review

import (
	"context"
	"fmt"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// loadReport obtiene un reporte por id.
// Un id mal formado o inexistente es ErrNotFound; si actorStoreID no está vacío, un reporte
// de otra tienda es ErrForbidden.
func loadReport(ctx context.Context, reports repository.ReportRepository, id, actorStoreID string) (*entity.InventoryReport, error) {
	if err := domain.RequireID("reporte", id); err != nil {
		return nil, err
	}
	r, err := reports.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener reporte: %w", err)
	}
	if r == nil {
		return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, id)
	}
	if actorStoreID != "" && r.StoreID != actorStoreID {
		return nil, fmt.Errorf("%w: el reporte pertenece a otra tienda", domain.ErrForbidden)
	}
	return r, nil
}
