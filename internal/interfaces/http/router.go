package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/overview"
	"github.com/jhoicas/Conteo-api/internal/application/review"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Distribute  *counting.DistributeUseCase
	Sync        *counting.SyncUseCase
	Recorder    *counting.RecorderUseCase
	Lines       *counting.LinesQueryUseCase
	Submit      *review.SubmitUseCase
	Coordinator *review.CoordinatorUseCase
	Reports     *review.ReportQueryUseCase
	Overview    *overview.AggregatorUseCase
	JWTSecret   string
	AppName     string
}

// Router registra las rutas de la API. Los permisos finos (campo, acción) los decide cada caso
// de uso con la tabla de capacidades; aquí solo se exige un token válido y la tienda correcta.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	countHandler := NewCountHandler(deps.Distribute, deps.Sync, deps.Recorder, deps.Lines, deps.Submit)
	slot := api.Group("/stores/:storeId/shifts/:shift")
	scoped := RequireStoreAccess()
	slot.Post("/distribution", scoped, countHandler.Distribute)
	slot.Post("/sync", scoped, countHandler.Sync)
	slot.Get("/lines", scoped, countHandler.Lines)
	slot.Post("/submission", scoped, countHandler.Submit)
	api.Patch("/count-lines/:id", countHandler.UpdateField)

	reportHandler := NewReportHandler(deps.Coordinator, deps.Reports)
	reports := api.Group("/reports")
	reports.Get("/", reportHandler.List)
	reports.Post("/review", reportHandler.BulkReview)
	reports.Get("/:id", reportHandler.GetByID)
	reports.Get("/:id/lines", reportHandler.Lines)
	reports.Get("/:id/pdf", reportHandler.PDF)
	reports.Post("/:id/review", reportHandler.Review)
	reports.Post("/:id/commit", reportHandler.RetryCommit)
	reports.Delete("/:id", RequireRole(access.RoleAdmin), reportHandler.Delete)

	overviewHandler := NewOverviewHandler(deps.Overview)
	api.Get("/overview", RequireRole(access.RoleSupervisor, access.RoleAdmin), overviewHandler.Get)
}
