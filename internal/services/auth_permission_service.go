package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"erp-system/internal/repositories"
)

const rolePermissionsCacheKey = "auth:permissions:role:%d"

type AuthPermissionServiceInterface interface {
	GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error)
}

// AuthPermissionService отдаёт имена прав роли, кэшируя их в Redis.
// Промах кэша стоит одного SQL-запроса; сбой Redis деградирует до БД.
type AuthPermissionService struct {
	permissionRepo repositories.PermissionRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	ttl            time.Duration
	logger         *zap.Logger
}

func NewAuthPermissionService(
	permissionRepo repositories.PermissionRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	ttl time.Duration,
	logger *zap.Logger,
) AuthPermissionServiceInterface {
	return &AuthPermissionService{
		permissionRepo: permissionRepo,
		cacheRepo:      cacheRepo,
		ttl:            ttl,
		logger:         logger,
	}
}

func (s *AuthPermissionService) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	key := fmt.Sprintf(rolePermissionsCacheKey, roleID)

	if cached, err := s.cacheRepo.Get(ctx, key); err == nil && cached != "" {
		var names []string
		if err := json.Unmarshal([]byte(cached), &names); err == nil {
			return names, nil
		}
		s.logger.Warn("Повреждённое значение в кэше прав, читаем из БД", zap.String("key", key))
	}

	names, err := s.permissionRepo.GetPermissionsNamesByRoleID(ctx, roleID)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(names); err == nil {
		if err := s.cacheRepo.Set(ctx, key, string(payload), s.ttl); err != nil {
			s.logger.Warn("Не удалось записать права роли в кэш", zap.Uint64("role_id", roleID), zap.Error(err))
		}
	}

	return names, nil
}
