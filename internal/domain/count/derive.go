// Package count contiene las reglas puras del conteo físico: derivación de diferencia/estado,
// validación de campos editables y resolución de la fecha operativa de cada turno.
package count

import "github.com/jhoicas/Conteo-api/internal/domain/entity"

// DeriveDiffStatus calcula la diferencia y el estado a partir de la cantidad contada y la esperada.
//
//	actual nil  -> (nil, PENDING)
//	diff == 0   -> MATCHED
//	diff <  0   -> MISSING
//	diff >  0   -> OVER
func DeriveDiffStatus(actual *int, expected int) (*int, string) {
	if actual == nil {
		return nil, entity.CountStatusPending
	}
	diff := *actual - expected
	switch {
	case diff == 0:
		return &diff, entity.CountStatusMatched
	case diff < 0:
		return &diff, entity.CountStatusMissing
	default:
		return &diff, entity.CountStatusOver
	}
}

// Recompute vuelve a aplicar la derivación sobre la línea. Todo camino de escritura debe llamarla.
func Recompute(l *entity.CountLine) {
	l.Diff, l.Status = DeriveDiffStatus(l.ActualQty, l.ExpectedQty)
}
