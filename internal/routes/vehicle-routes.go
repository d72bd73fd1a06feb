package routes

import (
	"github.com/labstack/echo/v4"

	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"
)

func RunVehicleRouter(api *echo.Group, ctrl *controllers.VehicleController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/vehicles")

	group.GET("", ctrl.GetVehicles, authMW.Secure(authz.VehiclesView))
	group.GET("/:id", ctrl.FindVehicle, authMW.Secure(authz.VehiclesView))
	group.POST("", ctrl.CreateVehicle, authMW.Secure(authz.VehiclesCreate))
	group.PUT("/:id", ctrl.UpdateVehicle, authMW.Secure(authz.VehiclesUpdate))
	group.POST("/:id/driver", ctrl.AssignDriver, authMW.Secure(authz.VehiclesUpdate))
	group.DELETE("/:id/driver", ctrl.RemoveDriver, authMW.Secure(authz.VehiclesUpdate))
	group.DELETE("/:id", ctrl.DeleteVehicle, authMW.Secure(authz.VehiclesDelete))
}
