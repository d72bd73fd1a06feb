package routes

import (
	"github.com/labstack/echo/v4"

	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"
)

func RunBranchRouter(api *echo.Group, ctrl *controllers.BranchController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/branches")

	group.GET("", ctrl.GetBranches, authMW.Secure(authz.BranchesView))
	group.GET("/:id", ctrl.FindBranch, authMW.Secure(authz.BranchesView))
	group.POST("", ctrl.CreateBranch, authMW.Secure(authz.BranchesCreate))
	group.PUT("/:id", ctrl.UpdateBranch, authMW.Secure(authz.BranchesUpdate))
	group.DELETE("/:id", ctrl.DeleteBranch, authMW.Secure(authz.BranchesDelete))
}
