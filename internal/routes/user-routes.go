package routes

import (
	"github.com/labstack/echo/v4"

	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"
)

func RunUserRouter(api *echo.Group, ctrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/users")

	group.GET("", ctrl.GetUsers, authMW.Secure(authz.UsersView))
	group.GET("/:id", ctrl.FindUser, authMW.Secure(authz.UsersView))
	group.POST("", ctrl.CreateUser, authMW.Secure(authz.UsersCreate))
	group.PUT("/:id", ctrl.UpdateUser, authMW.Secure(authz.UsersUpdate))
	group.DELETE("/:id", ctrl.DeleteUser, authMW.Secure(authz.UsersDelete))
}

// RunRoleRouter отдаёт роли и каталог привилегий только на чтение —
// справочник для назначения role_id пользователям. Состав ролей меняется
// сидером, а не через API.
func RunRoleRouter(api *echo.Group, ctrl *controllers.RoleController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/roles")

	group.GET("", ctrl.GetRoles, authMW.Secure(authz.UsersView))
	group.GET("/permissions", ctrl.GetPermissions, authMW.Secure(authz.UsersView))
	group.GET("/:id", ctrl.FindRole, authMW.Secure(authz.UsersView))
}
