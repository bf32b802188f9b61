// Package scheduler corre la sincronización con el ERP de forma periódica.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/internal/domain/repository"
	"github.com/jhoicas/Conteo-api/pkg/config"
)

// runTimeout tope de una corrida completa (todas las tiendas y turnos).
const runTimeout = 10 * time.Minute

// Syncer lo que el scheduler necesita del caso de uso de sincronización.
type Syncer interface {
	Sync(ctx context.Context, in dto.SyncInput) (*dto.SyncResult, error)
}

// RunSummary resultado de una corrida.
type RunSummary struct {
	Synced  int
	Skipped int
	Failed  int
}

// Scheduler sincroniza cada tienda activa y turno configurado según la expresión cron.
type Scheduler struct {
	cron   *cron.Cron
	cfg    config.SyncConfig
	stores repository.StoreRepository
	syncer Syncer
	log    zerolog.Logger
}

// New crea el scheduler; las expresiones se evalúan en loc.
func New(cfg config.SyncConfig, loc *time.Location, stores repository.StoreRepository, syncer Syncer, log zerolog.Logger) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		cfg:    cfg,
		stores: stores,
		syncer: syncer,
		log:    log,
	}
}

// Start registra la tarea y arranca el cron.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.tick); err != nil {
		return fmt.Errorf("scheduler: expresión %q: %w", s.cfg.Schedule, err)
	}
	s.log.Info().Str("schedule", s.cfg.Schedule).Ints("shifts", s.cfg.Shifts).Msg("scheduler iniciado")
	s.cron.Start()
	return nil
}

// Stop detiene el cron y espera a que termine la corrida en curso.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler detenido")
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	if _, err := s.RunOnce(ctx); err != nil {
		s.log.Error().Err(err).Msg("corrida de sincronización falló")
	}
}

// RunOnce sincroniza todas las tiendas activas. Un fallo por tienda se registra y no detiene la corrida;
// los turnos aún no distribuidos se omiten.
func (s *Scheduler) RunOnce(ctx context.Context) (RunSummary, error) {
	var sum RunSummary
	stores, err := s.stores.ListActive(ctx)
	if err != nil {
		return sum, fmt.Errorf("scheduler: listar tiendas: %w", err)
	}
	for _, st := range stores {
		for _, shift := range s.cfg.Shifts {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			res, err := s.syncer.Sync(ctx, dto.SyncInput{StoreID: st.ID, Shift: shift, ActorRole: access.RoleSystem})
			log := s.log.With().Str("store", st.Code).Int("shift", shift).Logger()
			switch {
			case errors.Is(err, domain.ErrNotDistributed):
				sum.Skipped++
				log.Debug().Msg("turno sin distribuir")
			case err != nil:
				sum.Failed++
				log.Warn().Err(err).Msg("sincronización falló")
			default:
				sum.Synced++
				log.Debug().Int("matched", res.MatchedCount).Int("updated", res.Updated).Msg("turno sincronizado")
			}
		}
	}
	s.log.Info().Int("synced", sum.Synced).Int("skipped", sum.Skipped).Int("failed", sum.Failed).Msg("corrida de sincronización")
	return sum, nil
}
