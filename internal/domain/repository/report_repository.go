package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// ReportFilter filtros de listado de reportes. Campos vacíos no filtran.
type ReportFilter struct {
	Dates   []time.Time
	Status  string
	StoreID string
}

// ReportRepository puerto de persistencia de reportes de inventario.
type ReportRepository interface {
	// Create falla con domain.ErrAlreadySubmitted si ya existe un reporte para (tienda, turno, fecha).
	Create(ctx context.Context, report *entity.InventoryReport) error
	// GetByID devuelve nil, nil si el reporte no existe.
	GetByID(ctx context.Context, id string) (*entity.InventoryReport, error)
	GetBySlot(ctx context.Context, storeID string, shift int, date time.Time) (*entity.InventoryReport, error)
	List(ctx context.Context, filter ReportFilter) ([]*entity.InventoryReport, error)
	// Transition aplica la decisión solo si el reporte sigue en PENDING.
	// Devuelve false si ninguna fila fue afectada.
	Transition(ctx context.Context, t entity.ReportTransition) (bool, error)
	// Delete devuelve false si el reporte no existía.
	Delete(ctx context.Context, id string) (bool, error)
}

// HistoryRepository puerto del historial inmutable de conteos.
type HistoryRepository interface {
	// UpsertBatch inserta o reemplaza por llave (tienda, producto, fecha, turno).
	UpsertBatch(ctx context.Context, records []entity.HistoryRecord) error
	ListBySlot(ctx context.Context, storeID string, shift int, date time.Time) ([]entity.HistoryRecord, error)
	DeleteBySlot(ctx context.Context, storeID string, shift int, date time.Time) (int, error)
}

// StockCommitter escribe las cantidades contadas de un reporte aprobado como nuevo stock oficial.
// Debe ser idempotente por reporte.
type StockCommitter interface {
	CommitReport(ctx context.Context, reportID string) error
}
