package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/overview"
	"github.com/jhoicas/Conteo-api/internal/application/review"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
	"github.com/jhoicas/Conteo-api/internal/infrastructure/erp"
	infrapdf "github.com/jhoicas/Conteo-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Conteo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Conteo-api/internal/interfaces/http"
	"github.com/jhoicas/Conteo-api/pkg/config"
	"github.com/jhoicas/Conteo-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("timezone", cfg.App.Timezone).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	storeRepo := postgres.NewStoreRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	lineRepo := postgres.NewCountLineRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	historyRepo := postgres.NewHistoryRepository(pool)
	committer := postgres.NewStockCommitter(pool)
	txRunner := postgres.NewTxRunner(pool)

	cal := count.Calendar{
		OvernightShift: cfg.Count.OvernightShift,
		CutoffHour:     cfg.Count.CutoffHour,
		Location:       cfg.App.Location(),
	}
	limits := count.Limits{MaxQty: cfg.Count.MaxQty, MaxNoteLen: cfg.Count.MaxNoteLen}
	erpClient := erp.NewClient(cfg.ERP)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Conteo API",
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("documentación OpenAPI no encontrada; /docs deshabilitado")
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		Distribute: counting.NewDistributeUseCase(storeRepo, productRepo, lineRepo, cal,
			logger.Component(log, "distributor")),
		Sync: counting.NewSyncUseCase(storeRepo, lineRepo, erpClient, cal,
			logger.Component(log, "synchronizer")),
		Recorder: counting.NewRecorderUseCase(lineRepo, limits, logger.Component(log, "recorder")),
		Lines:    counting.NewLinesQueryUseCase(lineRepo, cal),
		Submit: review.NewSubmitUseCase(txRunner, storeRepo, lineRepo, reportRepo, cal,
			logger.Component(log, "submitter")),
		Coordinator: review.NewCoordinatorUseCase(reportRepo, historyRepo, committer,
			logger.Component(log, "review")),
		Reports: review.NewReportQueryUseCase(reportRepo, historyRepo, storeRepo,
			infrapdf.NewCountSheetGenerator(), cal),
		Overview:  overview.NewAggregatorUseCase(storeRepo, lineRepo, reportRepo, cal),
		JWTSecret: cfg.JWT.Secret,
		AppName:   cfg.App.Name,
	})

	addr := cfg.HTTP.Addr()
	go func() {
		log.Info().Str("addr", addr).Msg("servidor HTTP escuchando")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
