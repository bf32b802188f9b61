package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/Conteo-api/internal/application/dto"
	"github.com/jhoicas/Conteo-api/internal/domain"
)

// errorMapping status HTTP y código por error de dominio, en orden de evaluación.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrValidation, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrNotDistributed, fiber.StatusConflict, "NOT_DISTRIBUTED"},
	{domain.ErrNoData, fiber.StatusConflict, "NO_DATA"},
	{domain.ErrAlreadySubmitted, fiber.StatusConflict, "ALREADY_SUBMITTED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUpstreamUnavailable, fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
}

// respondError traduce un error de caso de uso a la respuesta HTTP.
// Los errores no clasificados se registran y responden 500 sin exponer el detalle.
func respondError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: domain.ErrInternal.Error()})
}

// ErrorHandler manejador de errores de Fiber (rutas inexistentes, panics recuperados).
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return respondError(c, err)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func badShift(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "turno inválido"})
}
