package count

import (
	"fmt"
	"time"

	"github.com/jhoicas/Conteo-api/internal/domain"
)

// Turnos válidos por tienda.
const (
	MinShift = 1
	MaxShift = 3
)

// ValidateShift verifica que el turno esté en {1,2,3}.
func ValidateShift(shift int) error {
	if shift < MinShift || shift > MaxShift {
		return fmt.Errorf("%w: turno %d fuera de rango", domain.ErrValidation, shift)
	}
	return nil
}

// Calendar resuelve la fecha operativa de cada turno.
// El turno nocturno cruza la medianoche: antes de CutoffHour pertenece al día calendario anterior.
type Calendar struct {
	OvernightShift int
	CutoffHour     int
	Location       *time.Location
}

// DefaultCalendar turno 3 nocturno con corte a las 06:00 en hora local.
func DefaultCalendar() Calendar {
	return Calendar{OvernightShift: 3, CutoffHour: 6, Location: time.Local}
}

func (c Calendar) loc() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Day trunca t al día calendario en la zona de la tienda.
func (c Calendar) Day(t time.Time) time.Time {
	t = t.In(c.loc())
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc())
}

// OperatingDate devuelve la fecha bajo la que se archivan los datos del turno en el instante now.
func (c Calendar) OperatingDate(shift int, now time.Time) time.Time {
	local := now.In(c.loc())
	day := c.Day(local)
	if shift == c.OvernightShift && local.Hour() < c.CutoffHour {
		return day.AddDate(0, 0, -1)
	}
	return day
}

// IsOvernight indica si el turno cruza la medianoche.
func (c Calendar) IsOvernight(shift int) bool {
	return shift == c.OvernightShift
}

// ParseDate interpreta una fecha "2006-01-02" en la zona de la tienda.
func (c Calendar) ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, s, c.loc())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha inválida %q", domain.ErrValidation, s)
	}
	return d, nil
}
