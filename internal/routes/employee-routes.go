package routes

import (
	"github.com/labstack/echo/v4"

	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"
)

func RunEmployeeRouter(api *echo.Group, ctrl *controllers.EmployeeController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/employees")

	group.GET("", ctrl.GetEmployees, authMW.Secure(authz.EmployeesView))
	group.GET("/:id", ctrl.FindEmployee, authMW.Secure(authz.EmployeesView))
	group.POST("", ctrl.CreateEmployee, authMW.Secure(authz.EmployeesCreate))
	group.PUT("/:id", ctrl.UpdateEmployee, authMW.Secure(authz.EmployeesUpdate))
	group.DELETE("/:id", ctrl.DeleteEmployee, authMW.Secure(authz.EmployeesDelete))
}
