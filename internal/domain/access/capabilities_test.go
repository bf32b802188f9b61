package access_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Conteo-api/internal/domain"
	"github.com/jhoicas/Conteo-api/internal/domain/access"
	"github.com/jhoicas/Conteo-api/internal/domain/count"
)

func TestRequireField_StaffSoloCamposDeConteo(t *testing.T) {
	for _, f := range []string{count.FieldActualQty, count.FieldNote, count.FieldDiscrepancyReason} {
		assert.NoError(t, access.RequireField(access.RoleStaff, f), f)
	}
	for _, f := range []string{count.FieldExpectedQty, count.FieldStatus, "checked_by"} {
		err := access.RequireField(access.RoleStaff, f)
		assert.True(t, errors.Is(err, domain.ErrForbidden), f)
	}
}

func TestRequireField_SupervisorCamposPrivilegiados(t *testing.T) {
	assert.NoError(t, access.RequireField(access.RoleSupervisor, count.FieldExpectedQty))
	assert.NoError(t, access.RequireField(access.RoleSupervisor, count.FieldStatus))
	assert.Error(t, access.RequireField(access.RoleSupervisor, "store_id"))
}

func TestRequireAction_RevisionSoloRevisores(t *testing.T) {
	assert.ErrorIs(t, access.RequireAction(access.RoleStaff, access.ActionReview), domain.ErrForbidden)
	assert.NoError(t, access.RequireAction(access.RoleSupervisor, access.ActionReview))
	assert.NoError(t, access.RequireAction(access.RoleAdmin, access.ActionReview))
}

func TestRequireAction_BorradoSoloAdmin(t *testing.T) {
	assert.ErrorIs(t, access.RequireAction(access.RoleSupervisor, access.ActionDeleteReport), domain.ErrForbidden)
	assert.NoError(t, access.RequireAction(access.RoleAdmin, access.ActionDeleteReport))
}

func TestFor_RolDesconocidoSinCapacidades(t *testing.T) {
	c := access.For("vendedor")
	assert.False(t, c.CanWrite(count.FieldActualQty))
	assert.False(t, c.Can(access.ActionSubmit))
}

func TestKnown(t *testing.T) {
	for _, r := range []string{access.RoleStaff, access.RoleSupervisor, access.RoleAdmin, access.RoleSystem} {
		assert.True(t, access.Known(r), r)
	}
	assert.False(t, access.Known("vendedor"))
}

func TestSystem_SoloDistribuyeYSincroniza(t *testing.T) {
	assert.NoError(t, access.RequireAction(access.RoleSystem, access.ActionSync))
	assert.NoError(t, access.RequireAction(access.RoleSystem, access.ActionDistribute))
	assert.ErrorIs(t, access.RequireAction(access.RoleSystem, access.ActionSubmit), domain.ErrForbidden)
	assert.ErrorIs(t, access.RequireField(access.RoleSystem, count.FieldActualQty), domain.ErrForbidden)
}
