package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"erp-system/internal/entities"
)

type fakeCache struct {
	store   map[string]string
	lastTTL time.Duration
	setErr  error
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	return c.store[key], nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.store[key] = value.(string)
	c.lastTTL = expiration
	return nil
}

type fakePermissionRepo struct {
	names []string
	calls int
}

func (r *fakePermissionRepo) GetPermissions(ctx context.Context) ([]entities.Permission, error) {
	return nil, nil
}

func (r *fakePermissionRepo) GetPermissionsNamesByRoleID(ctx context.Context, roleID uint64) ([]string, error) {
	r.calls++
	return r.names, nil
}

func TestAuthPermissionService_CacheMissThenHit(t *testing.T) {
	cache := newFakeCache()
	repo := &fakePermissionRepo{names: []string{"equipment:view", "equipment:create"}}
	svc := NewAuthPermissionService(repo, cache, time.Minute, zap.NewNop())

	// промах: идём в БД и кладём в кэш
	names, err := svc.GetRolePermissionsNames(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"equipment:view", "equipment:create"}, names)
	assert.Equal(t, 1, repo.calls)

	// попадание: БД не трогаем
	names, err = svc.GetRolePermissionsNames(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"equipment:view", "equipment:create"}, names)
	assert.Equal(t, 1, repo.calls, "повторный запрос должен обслуживаться кэшем")
}

func TestAuthPermissionService_CorruptedCacheFallsBack(t *testing.T) {
	cache := newFakeCache()
	cache.store["auth:permissions:role:5"] = "{не json"
	repo := &fakePermissionRepo{names: []string{"users:view"}}
	svc := NewAuthPermissionService(repo, cache, time.Minute, zap.NewNop())

	names, err := svc.GetRolePermissionsNames(context.Background(), 5)

	require.NoError(t, err)
	assert.Equal(t, []string{"users:view"}, names)
	assert.Equal(t, 1, repo.calls)
}

func TestAuthPermissionService_ConfiguredTTLReachesCache(t *testing.T) {
	cache := newFakeCache()
	repo := &fakePermissionRepo{names: []string{"users:view"}}
	svc := NewAuthPermissionService(repo, cache, 10*time.Minute, zap.NewNop())

	_, err := svc.GetRolePermissionsNames(context.Background(), 7)

	require.NoError(t, err)
	// TTL — единственный механизм устаревания кэша прав, он должен доходить до Redis
	assert.Equal(t, 10*time.Minute, cache.lastTTL)
}
