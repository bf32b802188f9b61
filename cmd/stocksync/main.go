// Command stocksync sincroniza periódicamente las cantidades esperadas desde el ERP
// para todas las tiendas activas y los turnos configurados.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/infrastructure/erp"
	"github.com/jhoicas/Conteo-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Conteo-api/internal/scheduler"
	"github.com/jhoicas/Conteo-api/pkg/config"
	"github.com/jhoicas/Conteo-api/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "ejecuta una sola corrida y termina")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, App: cfg.App.Name})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	storeRepo := postgres.NewStoreRepository(pool)
	cal := count.Calendar{
		OvernightShift: cfg.Count.OvernightShift,
		CutoffHour:     cfg.Count.CutoffHour,
		Location:       cfg.App.Location(),
	}
	syncUC := counting.NewSyncUseCase(storeRepo, postgres.NewCountLineRepository(pool),
		erp.NewClient(cfg.ERP), cal, logger.Component(log, "synchronizer"))

	s := scheduler.New(cfg.Sync, cal.Location, storeRepo, syncUC, logger.Component(log, "scheduler"))

	if *once {
		if _, err := s.RunOnce(ctx); err != nil {
			log.Fatal().Err(err).Msg("sincronización")
		}
		return
	}

	if err := s.Start(); err != nil {
		log.Fatal().Err(err).Msg("scheduler")
	}
	<-ctx.Done()
	s.Stop()
}
