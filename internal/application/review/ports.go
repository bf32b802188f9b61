package review

import (
	"context"
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// SubmissionTxRunner ejecuta fn dentro de una transacción con repositorios de historial y reportes
// atados a ella. Si fn falla, nada de lo escrito persiste.
type SubmissionTxRunner interface {
	RunSubmission(ctx context.Context, fn func(
		history repository.HistoryRepository,
		reports repository.ReportRepository,
	) error) error
}

// CountSheetGenerator genera la hoja de conteo (PDF) de un reporte.
type CountSheetGenerator interface {
	GenerateCountSheet(ctx context.Context, sheet CountSheet) ([]byte, error)
}

// CountSheet datos que necesita el generador de la hoja de conteo.
type CountSheet struct {
	Report  *entity.InventoryReport
	Store   *entity.Store
	Records []entity.HistoryRecord
}

// Clock fuente de la hora actual (inyectable en tests).
type Clock func() time.Time
