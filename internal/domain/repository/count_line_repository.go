package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// SyncBatch actualización agrupada de cantidades esperadas.
// Solo afecta filas cuyo actual_qty sigue siendo ActualQty (evita pisar un conteo concurrente).
type SyncBatch struct {
	IDs         []string
	ExpectedQty int
	ActualQty   *int
	Diff        *int
	Status      string
	SyncedAt    time.Time
}

// SlotStats agregados de un (tienda, turno, fecha).
type SlotStats struct {
	StoreID          string
	Shift            int
	Date             time.Time
	Total            int
	Checked          int
	Matched          int
	Missing          int
	Over             int
	DiscrepancyValue decimal.Decimal
}

// CountLineRepository puerto de persistencia de líneas de conteo.
type CountLineRepository interface {
	// InsertMissing inserta las líneas cuya llave (tienda, producto, turno, fecha) no existe
	// y devuelve cuántas se crearon. Nunca modifica líneas existentes.
	InsertMissing(ctx context.Context, lines []*entity.CountLine) (int, error)
	// GetByID devuelve nil, nil si la línea no existe.
	GetByID(ctx context.Context, id string) (*entity.CountLine, error)
	ListBySlot(ctx context.Context, storeID string, shift int, date time.Time) ([]*entity.CountLineView, error)
	// Update escribe los campos mutables si la versión almacenada coincide con line.Version.
	// Devuelve domain.ErrConflict si otra escritura ganó la carrera.
	Update(ctx context.Context, line *entity.CountLine) error
	// ApplySync aplica un lote y devuelve los IDs efectivamente actualizados.
	ApplySync(ctx context.Context, batch SyncBatch) ([]string, error)
	// SlotStats agrega por (tienda, turno, fecha) para las fechas indicadas.
	SlotStats(ctx context.Context, dates []time.Time) ([]SlotStats, error)
}
