package count

import (
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/entity"
)

// Campos editables de una línea de conteo (nombres expuestos en la API).
const (
	FieldActualQty         = "actual_qty"
	FieldNote              = "note"
	FieldDiscrepancyReason = "discrepancy_reason"
	FieldExpectedQty       = "expected_qty"
	FieldStatus            = "status"
)

// Motivos de discrepancia aceptados.
const (
	ReasonDamaged        = "DAMAGED"
	ReasonExpired        = "EXPIRED"
	ReasonTheft          = "THEFT"
	ReasonMisplaced      = "MISPLACED"
	ReasonReceivingError = "RECEIVING_ERROR"
	ReasonSalesError     = "SALES_ERROR"
	ReasonOther          = "OTHER"
)

var discrepancyReasons = map[string]struct{}{
	ReasonDamaged:        {},
	ReasonExpired:        {},
	ReasonTheft:          {},
	ReasonMisplaced:      {},
	ReasonReceivingError: {},
	ReasonSalesError:     {},
	ReasonOther:          {},
}

// Limits cotas de validación configurables.
type Limits struct {
	MaxQty     int
	MaxNoteLen int
}

// DefaultLimits valores usados cuando la configuración no define otros.
func DefaultLimits() Limits {
	return Limits{MaxQty: 999_999, MaxNoteLen: 500}
}

// IsDiscrepancyReason indica si el motivo pertenece al conjunto cerrado.
func IsDiscrepancyReason(r string) bool {
	_, ok := discrepancyReasons[r]
	return ok
}

// ParseQuantity convierte el valor recibido (JSON decodificado) en una cantidad válida.
// nil se acepta solo si nullable es true (limpiar el conteo).
func ParseQuantity(v any, nullable bool, lim Limits) (*int, error) {
	if v == nil {
		if nullable {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: la cantidad es obligatoria", domain.ErrValidation)
	}
	var n int
	switch t := v.(type) {
	case int:
		n = t
	case int64:
		if t > math.MaxInt32 || t < math.MinInt32 {
			return nil, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrValidation)
		}
		n = int(t)
	case float64:
		if t != math.Trunc(t) || math.IsInf(t, 0) || math.IsNaN(t) {
			return nil, fmt.Errorf("%w: la cantidad debe ser entera", domain.ErrValidation)
		}
		if t > math.MaxInt32 || t < math.MinInt32 {
			return nil, fmt.Errorf("%w: cantidad fuera de rango", domain.ErrValidation)
		}
		n = int(t)
	default:
		return nil, fmt.Errorf("%w: la cantidad debe ser numérica", domain.ErrValidation)
	}
	if n < 0 || n > lim.MaxQty {
		return nil, fmt.Errorf("%w: la cantidad debe estar entre 0 y %d", domain.ErrValidation, lim.MaxQty)
	}
	return &n, nil
}

// ParseNote valida la nota libre. nil equivale a borrar la nota.
func ParseNote(v any, lim Limits) (string, error) {
	if v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: la nota debe ser texto", domain.ErrValidation)
	}
	if utf8.RuneCountInString(s) > lim.MaxNoteLen {
		return "", fmt.Errorf("%w: la nota supera %d caracteres", domain.ErrValidation, lim.MaxNoteLen)
	}
	return s, nil
}

// ParseReason valida el motivo de discrepancia. nil o "" lo borran.
func ParseReason(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: el motivo debe ser texto", domain.ErrValidation)
	}
	if s == "" {
		return nil, nil
	}
	if !IsDiscrepancyReason(s) {
		return nil, fmt.Errorf("%w: motivo de discrepancia desconocido %q", domain.ErrValidation, s)
	}
	return &s, nil
}

// ParseStatus valida un estado escrito directamente. Solo se acepta un estado del conjunto
// de estados de línea; la coherencia con la derivación la verifica el caso de uso.
func ParseStatus(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%w: el estado debe ser texto", domain.ErrValidation)
	}
	switch s {
	case entity.CountStatusPending, entity.CountStatusMatched, entity.CountStatusMissing, entity.CountStatusOver:
		return s, nil
	}
	return "", fmt.Errorf("%w: estado desconocido %q", domain.ErrValidation, s)
}
