// Package access define la tabla estática rol -> capacidades.
// Las verificaciones se hacen una vez por operación contra esta tabla; agregar un rol o un campo
// es agregar una entrada, no un condicional nuevo en cada caso de uso.
package access

import (
	"fmt"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
)

// Roles conocidos. El rol llega como etiqueta opaca desde el token.
const (
	RoleStaff      = "staff"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
	RoleSystem     = "system" // procesos programados (sincronización con el ERP)
)

// Action operación protegida por rol.
type Action string

const (
	ActionDistribute   Action = "distribute"
	ActionSync         Action = "sync"
	ActionSubmit       Action = "submit"
	ActionReview       Action = "review"
	ActionDeleteReport Action = "delete_report"
	ActionRetryCommit  Action = "retry_commit"
)

// Capabilities campos editables y acciones permitidas para un rol.
type Capabilities struct {
	Fields  map[string]struct{}
	Actions map[Action]struct{}
}

func set[T comparable](items ...T) map[T]struct{} {
	m := make(map[T]struct{}, len(items))
	for _, it := range items {
		m[it] = struct{}{}
	}
	return m
}

var (
	staffFields      = []string{count.FieldActualQty, count.FieldNote, count.FieldDiscrepancyReason}
	privilegedFields = append(append([]string{}, staffFields...), count.FieldExpectedQty, count.FieldStatus)

	table = map[string]Capabilities{
		RoleStaff: {
			Fields:  set(staffFields...),
			Actions: set(ActionSubmit),
		},
		RoleSupervisor: {
			Fields:  set(privilegedFields...),
			Actions: set(ActionSubmit, ActionReview, ActionDistribute, ActionSync),
		},
		RoleAdmin: {
			Fields:  set(privilegedFields...),
			Actions: set(ActionSubmit, ActionReview, ActionDistribute, ActionSync, ActionDeleteReport, ActionRetryCommit),
		},
		RoleSystem: {
			Actions: set(ActionDistribute, ActionSync),
		},
	}
)

// For devuelve las capacidades del rol. Un rol desconocido no tiene ninguna.
func For(role string) Capabilities {
	return table[role]
}

// Known indica si el rol está en la tabla.
func Known(role string) bool {
	_, ok := table[role]
	return ok
}

// CanWrite indica si el rol puede escribir el campo.
func (c Capabilities) CanWrite(field string) bool {
	_, ok := c.Fields[field]
	return ok
}

// Can indica si el rol puede ejecutar la acción.
func (c Capabilities) Can(a Action) bool {
	_, ok := c.Actions[a]
	return ok
}

// RequireField devuelve ErrForbidden si el rol no puede escribir el campo.
func RequireField(role, field string) error {
	if !For(role).CanWrite(field) {
		return fmt.Errorf("%w: el rol %q no puede modificar %q", domain.ErrForbidden, role, field)
	}
	return nil
}

// RequireAction devuelve ErrForbidden si el rol no puede ejecutar la acción.
func RequireAction(role string, a Action) error {
	if !For(role).Can(a) {
		return fmt.Errorf("%w: el rol %q no puede ejecutar %q", domain.ErrForbidden, role, a)
	}
	return nil
}
