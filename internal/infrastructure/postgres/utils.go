package postgres

import (
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

// isInvalidID verifica si PostgreSQL rechazó un parámetro por formato inválido (22P02),
// como un id que no es UUID. Para las búsquedas por id equivale a "no existe".
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "22P02"
	}
	return false
}

// dateParam envía una fecha operativa como texto 'YYYY-MM-DD' para que la zona horaria
// del proceso no la corra de día al castear a DATE.
func dateParam(t time.Time) string { return t.Format(time.DateOnly) }

func dateParams(ts []time.Time) []string {
	out := make([]string, 0, len(ts))
	for _, t := range ts {
		out = append(out, dateParam(t))
	}
	return out
}
