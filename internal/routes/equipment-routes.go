package routes

import (
	"github.com/labstack/echo/v4"

	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"
)

func RunEquipmentRouter(api *echo.Group, ctrl *controllers.EquipmentController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/equipment")

	group.GET("", ctrl.GetEquipments, authMW.Secure(authz.EquipmentView))
	group.GET("/low-stock", ctrl.GetLowStock, authMW.Secure(authz.EquipmentView))
	group.GET("/export", ctrl.ExportToExcel, authMW.Secure(authz.EquipmentExport))
	group.POST("/import", ctrl.ImportFromExcel, authMW.Secure(authz.EquipmentImport))
	group.POST("/transactions", ctrl.RecordTransaction, authMW.Secure(authz.EquipmentTransactions))
	group.GET("/:id/transactions", ctrl.GetTransactions, authMW.Secure(authz.EquipmentView))
	group.GET("/:id", ctrl.FindEquipment, authMW.Secure(authz.EquipmentView))
	group.POST("", ctrl.CreateEquipment, authMW.Secure(authz.EquipmentCreate))
	group.PUT("/:id", ctrl.UpdateEquipment, authMW.Secure(authz.EquipmentUpdate))
	group.DELETE("/:id", ctrl.DeleteEquipment, authMW.Secure(authz.EquipmentDelete))
}
