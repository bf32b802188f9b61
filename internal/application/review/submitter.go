// Package review contiene el envío de un turno a revisión y el ciclo de vida del reporte:
// aprobación/rechazo (individual y masivo), confirmación de stock y borrado administrativo.
package review

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// SubmitUseCase congela las líneas de un turno en el historial y abre un reporte PENDING.
type SubmitUseCase struct {
	tx      SubmissionTxRunner
	stores  repository.StoreRepository
	lines   repository.CountLineRepository
	reports repository.ReportRepository
	cal     count.Calendar
	now     Clock
	log     zerolog.Logger
}

// NewSubmitUseCase construye el caso de uso.
func NewSubmitUseCase(
	tx SubmissionTxRunner,
	stores repository.StoreRepository,
	lines repository.CountLineRepository,
	reports repository.ReportRepository,
	cal count.Calendar,
	log zerolog.Logger,
) *SubmitUseCase {
	return &SubmitUseCase{tx: tx, stores: stores, lines: lines, reports: reports, cal: cal, now: time.Now, log: log}
}

// SetClock reemplaza la fuente de tiempo.
func (uc *SubmitUseCase) SetClock(c Clock) { uc.now = c }

// Submit envía el turno vigente de la tienda.
//
// Retorna:
//   - domain.ErrAlreadySubmitted si ya existe un reporte para (tienda, turno, fecha), en cualquier estado.
//   - domain.ErrNoData si el turno no tiene líneas.
//
// El historial se escribe con upsert por llave, así que un reintento tras un fallo no duplica filas.
func (uc *SubmitUseCase) Submit(ctx context.Context, in dto.SubmitInput) (*dto.SubmitResult, error) {
	if err := access.RequireAction(in.ActorRole, access.ActionSubmit); err != nil {
		return nil, err
	}
	if err := count.ValidateShift(in.Shift); err != nil {
		return nil, err
	}
	if in.ActorID == "" {
		return nil, fmt.Errorf("%w: actor requerido", domain.ErrValidation)
	}
	store, err := uc.stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, fmt.Errorf("submit: obtener tienda: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, in.StoreID)
	}

	now := uc.now()
	date := uc.cal.OperatingDate(in.Shift, now)

	existing, err := uc.reports.GetBySlot(ctx, store.ID, in.Shift, date)
	if err != nil {
		return nil, fmt.Errorf("submit: buscar reporte: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: reporte %s (%s)", domain.ErrAlreadySubmitted, existing.ID, existing.Status)
	}

	views, err := uc.lines.ListBySlot(ctx, store.ID, in.Shift, date)
	if err != nil {
		return nil, fmt.Errorf("submit: listar líneas: %w", err)
	}
	if len(views) == 0 {
		return nil, fmt.Errorf("%w: tienda %s turno %d fecha %s",
			domain.ErrNoData, store.ID, in.Shift, date.Format(time.DateOnly))
	}

	records := make([]entity.HistoryRecord, 0, len(views))
	counted := 0
	for _, v := range views {
		if v.Counted() {
			counted++
		}
		records = append(records, entity.HistoryFromLine(*v, now))
	}

	report := &entity.InventoryReport{
		ID:           uuid.New().String(),
		StoreID:      store.ID,
		Shift:        in.Shift,
		Date:         date,
		Status:       entity.ReportStatusPending,
		SubmittedBy:  in.ActorID,
		SubmittedAt:  now,
		CountedLines: counted,
		TotalLines:   len(views),
	}

	// La unicidad (tienda, turno, fecha) del reporte es la guarda real ante envíos concurrentes;
	// la consulta previa solo da un mensaje temprano.
	err = uc.tx.RunSubmission(ctx, func(history repository.HistoryRepository, reports repository.ReportRepository) error {
		if err := history.UpsertBatch(ctx, records); err != nil {
			return fmt.Errorf("submit: historial: %w", err)
		}
		return reports.Create(ctx, report)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("report_id", report.ID).
		Str("store_id", store.ID).
		Int("shift", in.Shift).
		Str("date", date.Format(time.DateOnly)).
		Int("counted", counted).
		Int("total", len(views)).
		Msg("conteo enviado a revisión")

	return &dto.SubmitResult{
		Success:        true,
		ReportID:       report.ID,
		Date:           date.Format(time.DateOnly),
		Counted:        counted,
		Total:          len(views),
		CountedOfTotal: fmt.Sprintf("%d/%d", counted, len(views)),
	}, nil
}
