// Package counting contiene los casos de uso del conteo físico por turno:
// distribución del catálogo, sincronización con el ERP y registro de cantidades.
package counting

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

// DistributeUseCase materializa una línea de conteo por producto activo para (tienda, turno, fecha).
// Es idempotente: las llaves existentes se omiten y nunca se pisa una línea ya contada.
type DistributeUseCase struct {
	stores   repository.StoreRepository
	products repository.ProductRepository
	lines    repository.CountLineRepository
	cal      count.Calendar
	now      Clock
	log      zerolog.Logger
}

// NewDistributeUseCase construye el caso de uso.
func NewDistributeUseCase(
	stores repository.StoreRepository,
	products repository.ProductRepository,
	lines repository.CountLineRepository,
	cal count.Calendar,
	log zerolog.Logger,
) *DistributeUseCase {
	return &DistributeUseCase{
		stores:   stores,
		products: products,
		lines:    lines,
		cal:      cal,
		now:      time.Now,
		log:      log,
	}
}

// SetClock reemplaza la fuente de tiempo.
func (uc *DistributeUseCase) SetClock(c Clock) { uc.now = c }

// Distribute crea las líneas faltantes del turno y devuelve cuántas se crearon.
func (uc *DistributeUseCase) Distribute(ctx context.Context, in dto.DistributeInput) (*dto.DistributeResult, error) {
	if err := access.RequireAction(in.ActorRole, access.ActionDistribute); err != nil {
		return nil, err
	}
	if err := count.ValidateShift(in.Shift); err != nil {
		return nil, err
	}
	date := uc.cal.OperatingDate(in.Shift, uc.now())
	if in.Date != "" {
		d, err := uc.cal.ParseDate(in.Date)
		if err != nil {
			return nil, err
		}
		date = d
	}

	store, err := uc.stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, fmt.Errorf("distribute: obtener tienda: %w", err)
	}
	if store == nil || !store.Active {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, in.StoreID)
	}

	catalog, err := uc.products.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("distribute: listar catálogo: %w", err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("%w: catálogo vacío", domain.ErrNotFound)
	}

	now := uc.now()
	lines := make([]*entity.CountLine, 0, len(catalog))
	for _, p := range catalog {
		l := &entity.CountLine{
			ID:          uuid.New().String(),
			StoreID:     store.ID,
			ProductID:   p.ID,
			Shift:       in.Shift,
			Date:        date,
			ExpectedQty: 0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		count.Recompute(l)
		lines = append(lines, l)
	}

	created, err := uc.lines.InsertMissing(ctx, lines)
	if err != nil {
		return nil, fmt.Errorf("distribute: insertar líneas: %w", err)
	}

	uc.log.Info().
		Str("store_id", store.ID).
		Int("shift", in.Shift).
		Str("date", date.Format(time.DateOnly)).
		Int("created", created).
		Int("catalog", len(catalog)).
		Msg("catálogo distribuido")

	return &dto.DistributeResult{
		StoreID: store.ID,
		Shift:   in.Shift,
		Date:    date.Format(time.DateOnly),
		Created: created,
		Catalog: len(catalog),
	}, nil
}
