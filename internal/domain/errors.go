package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los casos de uso añaden detalle con fmt.Errorf("%w: ...") y los handlers comparan con errors.Is.
var (
	ErrForbidden           = errors.New("acceso denegado")
	ErrValidation          = errors.New("valor inválido")
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrNotDistributed      = errors.New("el catálogo aún no fue distribuido para el turno")
	ErrNoData              = errors.New("no hay líneas de conteo para el turno")
	ErrAlreadySubmitted    = errors.New("el reporte del turno ya fue enviado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrUpstreamUnavailable = errors.New("el ERP no está disponible")
	ErrInternal            = errors.New("error interno")
)
