package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/overview"
)

// OverviewHandler resumen diario.
type OverviewHandler struct {
	uc *overview.AggregatorUseCase
}

// NewOverviewHandler construye el handler.
func NewOverviewHandler(uc *overview.AggregatorUseCase) *OverviewHandler {
	return &OverviewHandler{uc: uc}
}

// Get godoc
// @Summary      Resumen del día por tienda y turno
// @Tags         overview
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD (vacío = hoy)"
// @Success      200  {object}  dto.OverviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/overview [get]
func (h *OverviewHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Overview(c.Context(), c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
