package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"erp-system/internal/entities"
)

func TestCanDo(t *testing.T) {
	ctx := Context{Permissions: map[string]bool{EquipmentView: true}}

	assert.True(t, CanDo(EquipmentView, ctx))
	assert.False(t, CanDo(EquipmentDelete, ctx))
}

func TestCanDo_SuperuserBypassesEverything(t *testing.T) {
	ctx := Context{Permissions: map[string]bool{Superuser: true}}

	assert.True(t, CanDo(EquipmentDelete, ctx))
	assert.True(t, CanDo(FinanceApprove, ctx))
}

func TestCanDo_NilPermissions(t *testing.T) {
	assert.False(t, CanDo(EquipmentView, Context{}))
}

func TestSameCompany(t *testing.T) {
	ctx := Context{Actor: &entities.User{CompanyID: 10}}

	assert.True(t, SameCompany(ctx, 10))
	assert.False(t, SameCompany(ctx, 11))
	assert.False(t, SameCompany(Context{}, 10), "без актора доступа нет")
}
