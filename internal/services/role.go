package services

import (
	"context"

	"erp-system/internal/entities"
	"erp-system/internal/repositories"
)

// RoleServiceInterface — чтение справочника ролей и каталога прав.
// Состав ролей формируется сидером; мутации через API нет.
type RoleServiceInterface interface {
	GetRoles(ctx context.Context) ([]entities.Role, error)
	GetPermissions(ctx context.Context) ([]entities.Permission, error)
	FindRole(ctx context.Context, id uint64) (*entities.Role, error)
}

type RoleService struct {
	roleRepo       repositories.RoleRepositoryInterface
	permissionRepo repositories.PermissionRepositoryInterface
}

func NewRoleService(
	roleRepo repositories.RoleRepositoryInterface,
	permissionRepo repositories.PermissionRepositoryInterface,
) RoleServiceInterface {
	return &RoleService{
		roleRepo:       roleRepo,
		permissionRepo: permissionRepo,
	}
}

func (s *RoleService) GetRoles(ctx context.Context) ([]entities.Role, error) {
	return s.roleRepo.GetRoles(ctx)
}

func (s *RoleService) GetPermissions(ctx context.Context) ([]entities.Permission, error) {
	return s.permissionRepo.GetPermissions(ctx)
}

func (s *RoleService) FindRole(ctx context.Context, id uint64) (*entities.Role, error) {
	return s.roleRepo.FindRole(ctx, id)
}
