package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/application/review"
)

// ReportHandler rutas de reportes: consulta, revisión y administración.
type ReportHandler struct {
	coordinator *review.CoordinatorUseCase
	query       *review.ReportQueryUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(coordinator *review.CoordinatorUseCase, query *review.ReportQueryUseCase) *ReportHandler {
	return &ReportHandler{coordinator: coordinator, query: query}
}

// List GET /api/reports?date=&status=
// Con un token atado a una tienda, solo se listan y se leen reportes de esa tienda.
func (h *ReportHandler) List(c *fiber.Ctx) error {
	out, err := h.query.List(c.Context(), c.Query("date"), c.Query("status"), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/reports/:id
func (h *ReportHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.query.Get(c.Context(), c.Params("id"), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Lines GET /api/reports/:id/lines
func (h *ReportHandler) Lines(c *fiber.Ctx) error {
	out, err := h.query.Lines(c.Context(), c.Params("id"), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// PDF GET /api/reports/:id/pdf
func (h *ReportHandler) PDF(c *fiber.Ctx) error {
	doc, filename, err := h.query.CountSheet(c.Context(), c.Params("id"), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(doc)
}

// Review godoc
// @Summary      Aprobar o rechazar un reporte
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de reporte"
// @Param        body  body  dto.ReviewRequest  true  "decision APPROVED|REJECTED; reason obligatorio al rechazar"
// @Success      200  {object}  dto.ReviewResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "ya revisado"
// @Router       /api/reports/{id}/review [post]
func (h *ReportHandler) Review(c *fiber.Ctx) error {
	var req dto.ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.coordinator.Review(c.Context(), dto.ReviewInput{
		ReportID:        c.Params("id"),
		Decision:        req.Decision,
		ReviewerID:      GetUserID(c),
		ReviewerRole:    GetRole(c),
		ReviewerStoreID: GetStoreID(c),
		Reason:          req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// BulkReview godoc
// @Summary      Revisión masiva de reportes
// @Tags         reports
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.BulkReviewRequest  true  "report_ids, decision, reason"
// @Success      200  {object}  dto.BulkReviewResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/reports/review [post]
func (h *ReportHandler) BulkReview(c *fiber.Ctx) error {
	var req dto.BulkReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	out, err := h.coordinator.BulkReview(c.Context(), dto.BulkReviewInput{
		ReportIDs:       req.ReportIDs,
		Decision:        req.Decision,
		ReviewerID:      GetUserID(c),
		ReviewerRole:    GetRole(c),
		ReviewerStoreID: GetStoreID(c),
		Reason:          req.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RetryCommit POST /api/reports/:id/commit
func (h *ReportHandler) RetryCommit(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.coordinator.RetryCommit(c.Context(), id, GetRole(c), GetStoreID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"success": true, "report_id": id})
}

// Delete DELETE /api/reports/:id
func (h *ReportHandler) Delete(c *fiber.Ctx) error {
	out, err := h.coordinator.DeleteReport(c.Context(), c.Params("id"), GetRole(c), GetStoreID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
