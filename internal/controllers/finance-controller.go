package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"erp-system/internal/dto"
	"erp-system/internal/services"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/utils"
)

type FinanceController struct {
	financeService services.FinanceServiceInterface
	logger         *zap.Logger
}

func NewFinanceController(financeService services.FinanceServiceInterface, logger *zap.Logger) *FinanceController {
	return &FinanceController{financeService: financeService, logger: logger}
}

// -----------------------------------------------------------
// БЮДЖЕТЫ
// -----------------------------------------------------------

func (c *FinanceController) GetBudgets(ctx echo.Context) error {
	fiscalYear := 0
	if v := ctx.QueryParam("fiscal_year"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			fiscalYear = parsed
		}
	}

	budgets, err := c.financeService.GetBudgets(ctx.Request().Context(), fiscalYear)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, budgets, "Список бюджетов получен", http.StatusOK)
}

func (c *FinanceController) CreateBudget(ctx echo.Context) error {
	var payload dto.CreateBudgetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	budgets, err := c.financeService.CreateBudget(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, budgets, "Бюджет создан", http.StatusCreated)
}

func (c *FinanceController) UpdateBudget(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	var payload dto.UpdateBudgetDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.financeService.UpdateBudget(ctx.Request().Context(), id, payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Бюджет обновлён", http.StatusOK)
}

func (c *FinanceController) DeleteBudget(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	if err := c.financeService.DeleteBudget(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Бюджет удалён", http.StatusOK)
}

// -----------------------------------------------------------
// РАСХОДЫ
// -----------------------------------------------------------

func (c *FinanceController) GetExpenses(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	expenses, total, err := c.financeService.GetExpenses(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, expenses, "Список расходов получен", http.StatusOK, total)
}

func (c *FinanceController) CreateExpense(ctx echo.Context) error {
	var payload dto.CreateExpenseDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	expense, err := c.financeService.CreateExpense(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, expense, "Расход создан", http.StatusCreated)
}

func (c *FinanceController) ApproveExpense(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}

	var payload dto.ApproveExpenseDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	expense, err := c.financeService.ApproveExpense(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, expense, "Расход обработан", http.StatusOK)
}

// -----------------------------------------------------------
// ДОХОДЫ
// -----------------------------------------------------------

func (c *FinanceController) GetRevenues(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())

	revenues, total, err := c.financeService.GetRevenues(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, revenues, "Список доходов получен", http.StatusOK, total)
}

func (c *FinanceController) CreateRevenue(ctx echo.Context) error {
	var payload dto.CreateRevenueDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.ErrBadRequest, c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	newID, err := c.financeService.CreateRevenue(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]uint64{"id": newID}, "Доход создан", http.StatusCreated)
}
