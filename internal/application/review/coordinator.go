package review

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// bulkConcurrency revisiones simultáneas en la revisión masiva.
const bulkConcurrency = 8

// CoordinatorUseCase lleva el reporte de PENDING a APPROVED/REJECTED.
//
// La transición es una escritura condicional (WHERE status = 'PENDING'): si no afecta filas,
// otro revisor ganó y el llamador recibe ErrConflict. No hay locks de aplicación.
type CoordinatorUseCase struct {
	reports   repository.ReportRepository
	history   repository.HistoryRepository
	committer repository.StockCommitter
	now       Clock
	log       zerolog.Logger
}

// NewCoordinatorUseCase construye el caso de uso.
func NewCoordinatorUseCase(
	reports repository.ReportRepository,
	history repository.HistoryRepository,
	committer repository.StockCommitter,
	log zerolog.Logger,
) *CoordinatorUseCase {
	return &CoordinatorUseCase{reports: reports, history: history, committer: committer, now: time.Now, log: log}
}

// SetClock reemplaza la fuente de tiempo.
func (uc *CoordinatorUseCase) SetClock(c Clock) { uc.now = c }

// validateDecision verifica la decisión y el motivo antes de cualquier escritura.
func validateDecision(decision, reason string) (*string, error) {
	switch decision {
	case entity.ReportStatusApproved:
		return nil, nil
	case entity.ReportStatusRejected:
		r := strings.TrimSpace(reason)
		if r == "" {
			return nil, fmt.Errorf("%w: el motivo de rechazo es obligatorio", domain.ErrValidation)
		}
		return &r, nil
	}
	return nil, fmt.Errorf("%w: decisión desconocida %q", domain.ErrValidation, decision)
}

// Review aplica la decisión sobre el reporte.
//
// Si la decisión es APPROVED se confirma el stock contado. Esa confirmación es best-effort
// respecto de la decisión: si falla, la revisión igual se reporta exitosa con StockCommitFailed
// y la decisión nunca se revierte.
func (uc *CoordinatorUseCase) Review(ctx context.Context, in dto.ReviewInput) (*dto.ReviewResult, error) {
	if err := access.RequireAction(in.ReviewerRole, access.ActionReview); err != nil {
		return nil, err
	}
	reason, err := validateDecision(in.Decision, in.Reason)
	if err != nil {
		return nil, err
	}
	return uc.review(ctx, in, reason)
}

func (uc *CoordinatorUseCase) review(ctx context.Context, in dto.ReviewInput, reason *string) (*dto.ReviewResult, error) {
	if in.ReviewerStoreID == "" {
		if err := domain.RequireID("reporte", in.ReportID); err != nil {
			return nil, err
		}
	} else if _, err := loadReport(ctx, uc.reports, in.ReportID, in.ReviewerStoreID); err != nil {
		return nil, err
	}

	ok, err := uc.reports.Transition(ctx, entity.ReportTransition{
		ReportID:        in.ReportID,
		Status:          in.Decision,
		ReviewedBy:      in.ReviewerID,
		ReviewedAt:      uc.now(),
		RejectionReason: reason,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: transición de reporte: %v", domain.ErrInternal, err)
	}
	if !ok {
		// Sin filas afectadas: o no existe o ya no está en PENDING.
		current, err := uc.reports.GetByID(ctx, in.ReportID)
		if err != nil {
			return nil, fmt.Errorf("%w: obtener reporte: %v", domain.ErrInternal, err)
		}
		if current == nil {
			return nil, fmt.Errorf("%w: reporte %s", domain.ErrNotFound, in.ReportID)
		}
		if current.IsTerminal() {
			return nil, fmt.Errorf("%w: el reporte %s ya fue revisado (%s)", domain.ErrConflict, in.ReportID, current.Status)
		}
		return nil, fmt.Errorf("%w: el reporte %s no admite la decisión %s", domain.ErrConflict, in.ReportID, in.Decision)
	}

	log := uc.log.With().Str("report_id", in.ReportID).Str("reviewer_id", in.ReviewerID).Logger()
	res := &dto.ReviewResult{Success: true, ReportID: in.ReportID, Status: in.Decision}

	if in.Decision == entity.ReportStatusApproved {
		if err := uc.committer.CommitReport(ctx, in.ReportID); err != nil {
			res.StockCommitFailed = true
			log.Error().Err(err).Msg("reporte aprobado pero la confirmación de stock falló")
		}
	}
	log.Info().Str("status", in.Decision).Bool("stock_commit_failed", res.StockCommitFailed).Msg("reporte revisado")
	return res, nil
}

// BulkReview revisa varios reportes en paralelo. Cada reporte es una transición independiente;
// un fallo no detiene ni revierte a los demás. Los mensajes de error se deduplican.
func (uc *CoordinatorUseCase) BulkReview(ctx context.Context, in dto.BulkReviewInput) (*dto.BulkReviewResult, error) {
	if err := access.RequireAction(in.ReviewerRole, access.ActionReview); err != nil {
		return nil, err
	}
	reason, err := validateDecision(in.Decision, in.Reason)
	if err != nil {
		return nil, err
	}
	ids := uniqueIDs(in.ReportIDs)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no hay reportes para revisar", domain.ErrValidation)
	}

	var (
		mu       sync.Mutex
		out      = &dto.BulkReviewResult{StockWarnings: []string{}, Errors: []string{}}
		seenErrs = map[string]struct{}{}
	)
	g := new(errgroup.Group)
	g.SetLimit(bulkConcurrency)
	for _, id := range ids {
		g.Go(func() error {
			res, err := uc.review(ctx, dto.ReviewInput{
				ReportID:        id,
				Decision:        in.Decision,
				ReviewerID:      in.ReviewerID,
				ReviewerRole:    in.ReviewerRole,
				ReviewerStoreID: in.ReviewerStoreID,
				Reason:          in.Reason,
			}, reason)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				out.FailedCount++
				msg := bulkErrorMessage(err)
				if _, dup := seenErrs[msg]; !dup {
					seenErrs[msg] = struct{}{}
					out.Errors = append(out.Errors, msg)
				}
				return nil
			}
			out.ProcessedCount++
			if res.StockCommitFailed {
				out.StockWarnings = append(out.StockWarnings, id)
			}
			return nil
		})
	}
	_ = g.Wait() // los goroutines nunca devuelven error; el resultado va en out

	sort.Strings(out.Errors)
	sort.Strings(out.StockWarnings)
	uc.log.Info().
		Str("decision", in.Decision).
		Int("processed", out.ProcessedCount).
		Int("failed", out.FailedCount).
		Int("stock_warnings", len(out.StockWarnings)).
		Msg("revisión masiva")
	return out, nil
}

// bulkErrorMessage agrupa errores por tipo para que la deduplicación sea útil.
func bulkErrorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrConflict):
		return domain.ErrConflict.Error() + ": reporte ya revisado por otro usuario"
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrNotFound.Error() + ": reporte inexistente"
	case errors.Is(err, domain.ErrForbidden):
		return domain.ErrForbidden.Error() + ": reporte de otra tienda"
	}
	return err.Error()
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
