package routes

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"
	"erp-system/pkg/service"
)

type staticPermissions struct{}

func (staticPermissions) GetRolePermissionsNames(ctx context.Context, roleID uint64) ([]string, error) {
	return nil, nil
}

// Справочник ролей отдаётся только на чтение: состав ролей меняет сидер,
// маршрутов на мутацию быть не должно.
func TestRunRoleRouter_ReadOnly(t *testing.T) {
	e := echo.New()
	api := e.Group("/api")

	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Minute, zap.NewNop())
	authMW := middleware.NewAuthMiddleware(jwtSvc, staticPermissions{}, zap.NewNop())
	ctrl := controllers.NewRoleController(nil, zap.NewNop())

	RunRoleRouter(api, ctrl, authMW)

	var roleRoutes []*echo.Route
	for _, r := range e.Routes() {
		if strings.HasPrefix(r.Path, "/api/roles") {
			roleRoutes = append(roleRoutes, r)
		}
	}

	require.NotEmpty(t, roleRoutes)
	for _, r := range roleRoutes {
		assert.Equal(t, http.MethodGet, r.Method, "маршрут %s %s должен быть только на чтение", r.Method, r.Path)
	}
}
