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

// SyncUseCase trae del ERP las cantidades esperadas y las estampa en las líneas del turno.
//
// Las escrituras se agrupan por valor destino (y por cantidad contada vigente, que fija diff/estado)
// para hacer un UPDATE por grupo. Cada lote es condicional sobre actual_qty: si un empleado
// cuenta la línea entre la lectura y la escritura, la fila se omite y se replanifica una vez.
type SyncUseCase struct {
	stores repository.StoreRepository
	lines  repository.CountLineRepository
	source StockSource
	cal    count.Calendar
	now    Clock
	log    zerolog.Logger
}

// NewSyncUseCase construye el caso de uso.
func NewSyncUseCase(
	stores repository.StoreRepository,
	lines repository.CountLineRepository,
	source StockSource,
	cal count.Calendar,
	log zerolog.Logger,
) *SyncUseCase {
	return &SyncUseCase{stores: stores, lines: lines, source: source, cal: cal, now: time.Now, log: log}
}

// SetClock reemplaza la fuente de tiempo.
func (uc *SyncUseCase) SetClock(c Clock) { uc.now = c }

type batchKey struct {
	expected  int
	hasActual bool
	actual    int
}

// Sync sincroniza el turno vigente de la tienda.
func (uc *SyncUseCase) Sync(ctx context.Context, in dto.SyncInput) (*dto.SyncResult, error) {
	if err := access.RequireAction(in.ActorRole, access.ActionSync); err != nil {
		return nil, err
	}
	if err := count.ValidateShift(in.Shift); err != nil {
		return nil, err
	}
	store, err := uc.stores.GetByID(ctx, in.StoreID)
	if err != nil {
		return nil, fmt.Errorf("sync: obtener tienda: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: tienda %s", domain.ErrNotFound, in.StoreID)
	}

	now := uc.now()
	date := uc.cal.OperatingDate(in.Shift, now)
	log := uc.log.With().
		Str("store_id", store.ID).
		Int("shift", in.Shift).
		Str("date", date.Format(time.DateOnly)).
		Logger()

	lines, err := uc.lines.ListBySlot(ctx, store.ID, in.Shift, date)
	if err != nil {
		return nil, fmt.Errorf("sync: listar líneas: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: tienda %s turno %d fecha %s",
			domain.ErrNotDistributed, store.ID, in.Shift, date.Format(time.DateOnly))
	}

	expected, err := uc.source.FetchExpected(ctx, store.Code)
	if err != nil {
		log.Error().Err(err).Msg("ERP no disponible")
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	matched := 0
	for _, l := range lines {
		if _, ok := expected[l.Barcode]; ok {
			matched++
		}
	}

	updated, batches, err := uc.apply(ctx, lines, expected, now)
	if err != nil {
		return nil, err
	}

	// Segunda pasada para las filas que cambiaron de conteo durante la primera.
	if updated.len() < matched {
		fresh, err := uc.lines.ListBySlot(ctx, store.ID, in.Shift, date)
		if err != nil {
			return nil, fmt.Errorf("sync: releer líneas: %w", err)
		}
		pending := make([]*entity.CountLineView, 0, matched-updated.len())
		for _, l := range fresh {
			if _, ok := expected[l.Barcode]; ok && !updated.has(l.ID) {
				pending = append(pending, l)
			}
		}
		retried, n, err := uc.apply(ctx, pending, expected, now)
		if err != nil {
			return nil, err
		}
		batches += n
		updated.merge(retried)
		if missed := matched - updated.len(); missed > 0 {
			log.Warn().Int("missed", missed).Msg("líneas no sincronizadas por escrituras concurrentes")
		}
	}

	log.Info().
		Int("lines", len(lines)).
		Int("matched", matched).
		Int("updated", updated.len()).
		Int("batches", batches).
		Msg("sincronización con ERP")

	return &dto.SyncResult{
		Success:      true,
		Date:         date.Format(time.DateOnly),
		Lines:        len(lines),
		MatchedCount: matched,
		Updated:      updated.len(),
		Batches:      batches,
	}, nil
}

// apply agrupa las líneas coincidentes por valor destino y aplica un lote por grupo.
func (uc *SyncUseCase) apply(
	ctx context.Context,
	lines []*entity.CountLineView,
	expected map[string]int,
	at time.Time,
) (idSet, int, error) {
	groups := make(map[batchKey]*repository.SyncBatch)
	order := make([]batchKey, 0)
	for _, l := range lines {
		target, ok := expected[l.Barcode]
		if !ok {
			continue
		}
		key := batchKey{expected: target}
		if l.ActualQty != nil {
			key.hasActual = true
			key.actual = *l.ActualQty
		}
		b, ok := groups[key]
		if !ok {
			diff, status := count.DeriveDiffStatus(l.ActualQty, target)
			b = &repository.SyncBatch{
				ExpectedQty: target,
				ActualQty:   l.ActualQty,
				Diff:        diff,
				Status:      status,
				SyncedAt:    at,
			}
			groups[key] = b
			order = append(order, key)
		}
		b.IDs = append(b.IDs, l.ID)
	}

	done := idSet{}
	for _, k := range order {
		ids, err := uc.lines.ApplySync(ctx, *groups[k])
		if err != nil {
			return nil, 0, fmt.Errorf("sync: aplicar lote: %w", err)
		}
		for _, id := range ids {
			done[id] = struct{}{}
		}
	}
	return done, len(order), nil
}

type idSet map[string]struct{}

func (s idSet) len() int { return len(s) }

func (s idSet) has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s idSet) merge(o idSet) {
	for id := range o {
		s[id] = struct{}{}
	}
}
