package review

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// DeleteReport borra el reporte y, en un paso aparte y best-effort, su historial.
// Un fallo en el borrado del historial se registra en el log y no revierte el borrado del reporte.
func (uc *CoordinatorUseCase) DeleteReport(ctx context.Context, reportID, actorRole, actorStoreID string) (*dto.DeleteReportResult, error) {
	if err := access.RequireAction(actorRole, access.ActionDeleteReport); err != nil {
		return nil, err
	}
	report, err := loadReport(ctx, uc.reports, reportID, actorStoreID)
	if err != nil {
		return nil, fmt.Errorf("delete report: %w", err)
	}
	deleted, err := uc.reports.Delete(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("delete report: %w", err)
	}
	if !deleted {
		return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, reportID)
	}

	res := &dto.DeleteReportResult{Deleted: true}
	log := uc.log.With().
		Str("report_id", reportID).
		Str("store_id", report.StoreID).
		Int("shift", report.Shift).
		Str("date", report.Date.Format(time.DateOnly)).
		Logger()

	n, err := uc.history.DeleteBySlot(ctx, report.StoreID, report.Shift, report.Date)
	if err != nil {
		res.CascadeFailed = true
		log.Warn().Err(err).Msg("reporte borrado; no se pudo borrar su historial")
		return res, nil
	}
	res.HistoryDeleted = n
	log.Info().Int("history_deleted", n).Msg("reporte borrado")
	return res, nil
}

// RetryCommit vuelve a ejecutar la confirmación de stock de un reporte APPROVED.
// actorStoreID, si no está vacío, limita la operación a reportes de esa tienda (igual en DeleteReport).
// La confirmación es idempotente por reporte, así que repetirla es seguro.
func (uc *CoordinatorUseCase) RetryCommit(ctx context.Context, reportID, actorRole, actorStoreID string) error {
	if err := access.RequireAction(actorRole, access.ActionRetryCommit); err != nil {
		return err
	}
	report, err := loadReport(ctx, uc.reports, reportID, actorStoreID)
	if err != nil {
		return fmt.Errorf("retry commit: %w", err)
	}
	if report.Status != entity.ReportStatusApproved {
		return fmt.Errorf("%w: el reporte %s está en %s", domain.ErrConflict, reportID, report.Status)
	}
	if err := uc.committer.CommitReport(ctx, reportID); err != nil {
		uc.log.Error().Err(err).Str("report_id", reportID).Msg("reintento de confirmación de stock falló")
		return fmt.Errorf("%w: confirmación de stock: %v", domain.ErrInternal, err)
	}
	uc.log.Info().Str("report_id", reportID).Msg("stock confirmado")
	return nil
}
