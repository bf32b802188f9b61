package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// RequireID verifica que id sea un UUID. Un identificador mal formado no puede existir,
// por eso se informa como ErrNotFound.
func RequireID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s %q", ErrNotFound, kind, id)
	}
	return nil
}
