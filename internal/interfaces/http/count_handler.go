package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Conteo-api/internal/application/counting"
	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/application/review"
)

// CountHandler rutas del conteo por tienda y turno.
type CountHandler struct {
	distribute *counting.DistributeUseCase
	sync       *counting.SyncUseCase
	recorder   *counting.RecorderUseCase
	lines      *counting.LinesQueryUseCase
	submit     *review.SubmitUseCase
}

// NewCountHandler construye el handler.
func NewCountHandler(
	distribute *counting.DistributeUseCase,
	sync *counting.SyncUseCase,
	recorder *counting.RecorderUseCase,
	lines *counting.LinesQueryUseCase,
	submit *review.SubmitUseCase,
) *CountHandler {
	return &CountHandler{distribute: distribute, sync: sync, recorder: recorder, lines: lines, submit: submit}
}

// Distribute godoc
// @Summary      Distribuir catálogo al turno
// @Tags         count
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        storeId  path  string                  true   "ID de tienda"
// @Param        shift    path  int                     true   "Turno (1-3)"
// @Param        body     body  dto.DistributeRequest  false  "date opcional (YYYY-MM-DD)"
// @Success      200  {object}  dto.DistributeResult
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stores/{storeId}/shifts/{shift}/distribution [post]
func (h *CountHandler) Distribute(c *fiber.Ctx) error {
	shift, err := c.ParamsInt("shift")
	if err != nil {
		return badShift(c)
	}
	var req dto.DistributeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}
	out, err := h.distribute.Distribute(c.Context(), dto.DistributeInput{
		StoreID:   c.Params("storeId"),
		Shift:     shift,
		Date:      req.Date,
		ActorRole: GetRole(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Sync godoc
// @Summary      Sincronizar cantidades esperadas con el ERP
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        storeId  path  string  true  "ID de tienda"
// @Param        shift    path  int     true  "Turno (1-3)"
// @Success      200  {object}  dto.SyncResult
// @Failure      409  {object}  dto.ErrorResponse  "NOT_DISTRIBUTED"
// @Failure      502  {object}  dto.ErrorResponse  "UPSTREAM_UNAVAILABLE"
// @Router       /api/stores/{storeId}/shifts/{shift}/sync [post]
func (h *CountHandler) Sync(c *fiber.Ctx) error {
	shift, err := c.ParamsInt("shift")
	if err != nil {
		return badShift(c)
	}
	out, err := h.sync.Sync(c.Context(), dto.SyncInput{
		StoreID:   c.Params("storeId"),
		Shift:     shift,
		ActorRole: GetRole(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Lines GET /api/stores/:storeId/shifts/:shift/lines?date=
func (h *CountHandler) Lines(c *fiber.Ctx) error {
	shift, err := c.ParamsInt("shift")
	if err != nil {
		return badShift(c)
	}
	out, err := h.lines.List(c.Context(), c.Params("storeId"), shift, c.Query("date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Submit godoc
// @Summary      Enviar el turno a revisión
// @Tags         count
// @Security     Bearer
// @Produce      json
// @Param        storeId  path  string  true  "ID de tienda"
// @Param        shift    path  int     true  "Turno (1-3)"
// @Success      201  {object}  dto.SubmitResult
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse  "NO_DATA o ALREADY_SUBMITTED"
// @Router       /api/stores/{storeId}/shifts/{shift}/submission [post]
func (h *CountHandler) Submit(c *fiber.Ctx) error {
	shift, err := c.ParamsInt("shift")
	if err != nil {
		return badShift(c)
	}
	out, err := h.submit.Submit(c.Context(), dto.SubmitInput{
		StoreID:   c.Params("storeId"),
		Shift:     shift,
		ActorID:   GetUserID(c),
		ActorRole: GetRole(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateField godoc
// @Summary      Editar un campo de una línea de conteo
// @Tags         count
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de línea"
// @Param        body  body  dto.UpdateFieldRequest  true  "field y value (obligatorio; null limpia)"
// @Success      200  {object}  dto.CountLineResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/count-lines/{id} [patch]
func (h *CountHandler) UpdateField(c *fiber.Ctx) error {
	var req dto.UpdateFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	value, err := req.DecodeValue()
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.recorder.UpdateField(c.Context(), dto.UpdateFieldInput{
		LineID:       c.Params("id"),
		Field:        req.Field,
		Value:        value,
		ActorID:      GetUserID(c),
		ActorRole:    GetRole(c),
		ActorStoreID: GetStoreID(c),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
