package counting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
)

// maxUpdateAttempts reintentos ante ErrConflict de la escritura condicional por versión.
const maxUpdateAttempts = 3

// RecorderUseCase aplica las ediciones de los empleados sobre las líneas de conteo.
type RecorderUseCase struct {
	lines  repository.CountLineRepository
	limits count.Limits
	now    Clock
	log    zerolog.Logger
}

// NewRecorderUseCase construye el caso de uso.
func NewRecorderUseCase(lines repository.CountLineRepository, limits count.Limits, log zerolog.Logger) *RecorderUseCase {
	return &RecorderUseCase{lines: lines, limits: limits, now: time.Now, log: log}
}

// SetClock reemplaza la fuente de tiempo.
func (uc *RecorderUseCase) SetClock(c Clock) { uc.now = c }

// fieldPatch valor ya validado listo para aplicarse sobre la línea.
type fieldPatch func(l *entity.CountLine, actorID string, now time.Time) error

// UpdateField valida permiso y valor antes de leer o escribir, y luego aplica la edición
// con escritura condicional por versión. diff/estado se recalculan en cada escritura.
func (uc *RecorderUseCase) UpdateField(ctx context.Context, in dto.UpdateFieldInput) (*dto.CountLineResponse, error) {
	if err := access.RequireField(in.ActorRole, in.Field); err != nil {
		return nil, err
	}
	patch, err := uc.parse(in.Field, in.Value)
	if err != nil {
		return nil, err
	}
	if err := domain.RequireID("línea", in.LineID); err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		line, err := uc.lines.GetByID(ctx, in.LineID)
		if err != nil {
			return nil, fmt.Errorf("update field: obtener línea: %w", err)
		}
		if line == nil {
			return nil, fmt.Errorf("%w: línea %s", domain.ErrNotFound, in.LineID)
		}
		if in.ActorStoreID != "" && line.StoreID != in.ActorStoreID {
			return nil, fmt.Errorf("%w: la línea pertenece a otra tienda", domain.ErrForbidden)
		}
		now := uc.now()
		if err := patch(line, in.ActorID, now); err != nil {
			return nil, err
		}
		count.Recompute(line)
		line.UpdatedAt = now

		err = uc.lines.Update(ctx, line)
		if err == nil {
			uc.log.Debug().
				Str("line_id", line.ID).
				Str("field", in.Field).
				Str("actor_id", in.ActorID).
				Str("status", line.Status).
				Msg("línea actualizada")
			resp := toCountLineResponse(&entity.CountLineView{CountLine: *line})
			return &resp, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= maxUpdateAttempts {
			return nil, err
		}
	}
}

func (uc *RecorderUseCase) parse(field string, value any) (fieldPatch, error) {
	switch field {
	case count.FieldActualQty:
		q, err := count.ParseQuantity(value, true, uc.limits)
		if err != nil {
			return nil, err
		}
		return func(l *entity.CountLine, actorID string, now time.Time) error {
			setActual(l, q, actorID, now)
			return nil
		}, nil

	case count.FieldNote:
		n, err := count.ParseNote(value, uc.limits)
		if err != nil {
			return nil, err
		}
		return func(l *entity.CountLine, _ string, _ time.Time) error {
			l.Note = n
			return nil
		}, nil

	case count.FieldDiscrepancyReason:
		r, err := count.ParseReason(value)
		if err != nil {
			return nil, err
		}
		return func(l *entity.CountLine, _ string, _ time.Time) error {
			l.DiscrepancyReason = r
			return nil
		}, nil

	case count.FieldExpectedQty:
		q, err := count.ParseQuantity(value, false, uc.limits)
		if err != nil {
			return nil, err
		}
		return func(l *entity.CountLine, _ string, _ time.Time) error {
			l.ExpectedQty = *q
			return nil
		}, nil

	case count.FieldStatus:
		s, err := count.ParseStatus(value)
		if err != nil {
			return nil, err
		}
		// El estado es derivado: PENDING equivale a limpiar el conteo; cualquier otro valor
		// solo se acepta si coincide con lo que ya se deriva de las cantidades.
		return func(l *entity.CountLine, actorID string, now time.Time) error {
			if s == entity.CountStatusPending {
				setActual(l, nil, actorID, now)
				return nil
			}
			if _, derived := count.DeriveDiffStatus(l.ActualQty, l.ExpectedQty); derived != s {
				return fmt.Errorf("%w: el estado %s no corresponde a las cantidades (%s)", domain.ErrValidation, s, derived)
			}
			return nil
		}, nil
	}
	return nil, fmt.Errorf("%w: campo desconocido %q", domain.ErrValidation, field)
}

// setActual escribe la cantidad contada y el sello de verificación; nil limpia ambos.
func setActual(l *entity.CountLine, q *int, actorID string, now time.Time) {
	l.ActualQty = q
	if q == nil {
		l.CheckedBy = nil
		l.CheckedAt = nil
		return
	}
	by, at := actorID, now
	l.CheckedBy = &by
	l.CheckedAt = &at
}
