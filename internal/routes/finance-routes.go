package routes

import (
	"github.com/labstack/echo/v4"

	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/pkg/middleware"
)

func RunFinanceRouter(api *echo.Group, ctrl *controllers.FinanceController, authMW *middleware.AuthMiddleware) {
	group := api.Group("/finance")

	group.GET("/budgets", ctrl.GetBudgets, authMW.Secure(authz.FinanceView))
	group.POST("/budgets", ctrl.CreateBudget, authMW.Secure(authz.FinanceCreate))
	group.PUT("/budgets/:id", ctrl.UpdateBudget, authMW.Secure(authz.FinanceUpdate))
	group.DELETE("/budgets/:id", ctrl.DeleteBudget, authMW.Secure(authz.FinanceDelete))

	group.GET("/expenses", ctrl.GetExpenses, authMW.Secure(authz.FinanceView))
	group.POST("/expenses", ctrl.CreateExpense, authMW.Secure(authz.FinanceCreate))
	group.POST("/expenses/:id/approve", ctrl.ApproveExpense, authMW.Secure(authz.FinanceApprove))

	group.GET("/revenues", ctrl.GetRevenues, authMW.Secure(authz.FinanceView))
	group.POST("/revenues", ctrl.CreateRevenue, authMW.Secure(authz.FinanceCreate))
}
