package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/events"
	"erp-system/internal/repositories"
	"erp-system/pkg/errors"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/types"
	"erp-system/pkg/utils"
)

type FinanceServiceInterface interface {
	GetBudgets(ctx context.Context, fiscalYear int) ([]entities.Budget, error)
	CreateBudget(ctx context.Context, payload dto.CreateBudgetDTO) ([]entities.Budget, error)
	UpdateBudget(ctx context.Context, id uint64, payload dto.UpdateBudgetDTO) error
	DeleteBudget(ctx context.Context, id uint64) error

	GetExpenses(ctx context.Context, filter types.Filter) ([]entities.Expense, uint64, error)
	CreateExpense(ctx context.Context, payload dto.CreateExpenseDTO) (*entities.Expense, error)
	ApproveExpense(ctx context.Context, id uint64, payload dto.ApproveExpenseDTO) (*entities.Expense, error)

	GetRevenues(ctx context.Context, filter types.Filter) ([]entities.Revenue, uint64, error)
	CreateRevenue(ctx context.Context, payload dto.CreateRevenueDTO) (uint64, error)
}

type FinanceService struct {
	financeRepo repositories.FinanceRepositoryInterface
	branchRepo  repositories.BranchRepositoryInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
}

func NewFinanceService(
	financeRepo repositories.FinanceRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) FinanceServiceInterface {
	return &FinanceService{financeRepo: financeRepo, branchRepo: branchRepo, bus: bus, logger: logger}
}

const financeDateLayout = "2006-01-02"

func parseFinanceDate(value string) (time.Time, error) {
	t, err := time.Parse(financeDateLayout, value)
	if err != nil {
		return time.Time{}, errors.NewInvalidInputError("некорректная дата %q, ожидается ГГГГ-ММ-ДД", value)
	}
	return t, nil
}

// -----------------------------------------------------------
// БЮДЖЕТЫ
// -----------------------------------------------------------

func (s *FinanceService) GetBudgets(ctx context.Context, fiscalYear int) ([]entities.Budget, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.financeRepo.GetBudgets(ctx, companyID, fiscalYear)
}

func (s *FinanceService) CreateBudget(ctx context.Context, payload dto.CreateBudgetDTO) ([]entities.Budget, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	budget := entities.Budget{
		CompanyID:  companyID,
		Name:       payload.Name,
		Category:   payload.Category,
		Amount:     payload.Amount,
		FiscalYear: payload.FiscalYear,
		Status:     "active",
		Notes:      payload.Notes.Ptr(),
	}

	if payload.BranchID.Valid {
		branchID := uint64(payload.BranchID.Int64)
		if _, err := s.branchRepo.FindBranch(ctx, companyID, branchID); err != nil {
			return nil, err
		}
		budget.BranchID = &branchID
	}
	if payload.Quarter.Valid {
		v := int(payload.Quarter.Int)
		if v < 1 || v > 4 {
			return nil, errors.NewInvalidInputError("квартал должен быть в диапазоне 1..4")
		}
		budget.Quarter = &v
	}
	if payload.Month.Valid {
		v := int(payload.Month.Int)
		if v < 1 || v > 12 {
			return nil, errors.NewInvalidInputError("месяц должен быть в диапазоне 1..12")
		}
		budget.Month = &v
	}
	if payload.StartDate.Valid {
		t, err := parseFinanceDate(payload.StartDate.String)
		if err != nil {
			return nil, err
		}
		budget.StartDate = &t
	}
	if payload.EndDate.Valid {
		t, err := parseFinanceDate(payload.EndDate.String)
		if err != nil {
			return nil, err
		}
		budget.EndDate = &t
	}
	if budget.StartDate != nil && budget.EndDate != nil && budget.EndDate.Before(*budget.StartDate) {
		return nil, errors.NewInvalidInputError("дата окончания раньше даты начала")
	}

	newID, err := s.financeRepo.CreateBudget(ctx, budget)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "create_budget", newID)
	return s.financeRepo.GetBudgets(ctx, companyID, payload.FiscalYear)
}

func (s *FinanceService) UpdateBudget(ctx context.Context, id uint64, payload dto.UpdateBudgetDTO) error {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return err
	}

	budgets, err := s.financeRepo.GetBudgets(ctx, companyID, 0)
	if err != nil {
		return err
	}

	var budget *entities.Budget
	for i := range budgets {
		if budgets[i].ID == id {
			budget = &budgets[i]
			break
		}
	}
	if budget == nil {
		return errors.ErrNotFound
	}

	if payload.Name != nil {
		budget.Name = *payload.Name
	}
	if payload.Category != nil {
		budget.Category = *payload.Category
	}
	if payload.Amount != nil {
		budget.Amount = *payload.Amount
	}
	if payload.Status != nil {
		budget.Status = *payload.Status
	}
	if payload.Notes.Valid {
		budget.Notes = payload.Notes.Ptr()
	}

	if err := s.financeRepo.UpdateBudget(ctx, companyID, id, *budget); err != nil {
		return err
	}
	s.publishAudit(ctx, companyID, "update_budget", id)
	return nil
}

func (s *FinanceService) DeleteBudget(ctx context.Context, id uint64) error {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := s.financeRepo.DeleteBudget(ctx, companyID, id); err != nil {
		return err
	}
	s.publishAudit(ctx, companyID, "delete_budget", id)
	return nil
}

// -----------------------------------------------------------
// РАСХОДЫ
// -----------------------------------------------------------

func (s *FinanceService) GetExpenses(ctx context.Context, filter types.Filter) ([]entities.Expense, uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.financeRepo.GetExpenses(ctx, companyID, filter)
}

func (s *FinanceService) CreateExpense(ctx context.Context, payload dto.CreateExpenseDTO) (*entities.Expense, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	if _, err := s.branchRepo.FindBranch(ctx, companyID, payload.BranchID); err != nil {
		return nil, err
	}

	expenseDate, err := parseFinanceDate(payload.ExpenseDate)
	if err != nil {
		return nil, err
	}

	expense := entities.Expense{
		CompanyID:   companyID,
		BranchID:    payload.BranchID,
		Category:    payload.Category,
		Amount:      payload.Amount,
		Description: payload.Description,
		ExpenseDate: expenseDate,
		Status:      entities.ExpenseStatusPending,
		CreatedBy:   userID,
		Notes:       payload.Notes.Ptr(),
	}

	newID, err := s.financeRepo.CreateExpense(ctx, expense)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "create_expense", newID)
	return s.financeRepo.FindExpense(ctx, companyID, newID)
}

// ApproveExpense обрабатывает расход в статусе pending. Повторное
// согласование уже обработанного расхода возвращает конфликт.
func (s *FinanceService) ApproveExpense(ctx context.Context, id uint64, payload dto.ApproveExpenseDTO) (*entities.Expense, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	status := entities.ExpenseStatusRejected
	action := "reject_expense"
	if payload.Approved {
		status = entities.ExpenseStatusApproved
		action = "approve_expense"
	}

	if err := s.financeRepo.SetExpenseStatus(ctx, companyID, id, status, userID, payload.Notes.Ptr()); err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, action, id)
	return s.financeRepo.FindExpense(ctx, companyID, id)
}

// -----------------------------------------------------------
// ДОХОДЫ
// -----------------------------------------------------------

func (s *FinanceService) GetRevenues(ctx context.Context, filter types.Filter) ([]entities.Revenue, uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.financeRepo.GetRevenues(ctx, companyID, filter)
}

func (s *FinanceService) CreateRevenue(ctx context.Context, payload dto.CreateRevenueDTO) (uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return 0, err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return 0, err
	}

	if _, err := s.branchRepo.FindBranch(ctx, companyID, payload.BranchID); err != nil {
		return 0, err
	}

	revenueDate, err := parseFinanceDate(payload.RevenueDate)
	if err != nil {
		return 0, err
	}

	revenue := entities.Revenue{
		CompanyID:   companyID,
		BranchID:    payload.BranchID,
		Source:      payload.Source,
		Amount:      payload.Amount,
		Description: payload.Description.Ptr(),
		RevenueDate: revenueDate,
		Status:      "received",
		CreatedBy:   userID,
	}

	newID, err := s.financeRepo.CreateRevenue(ctx, revenue)
	if err != nil {
		return 0, err
	}

	s.publishAudit(ctx, companyID, "create_revenue", newID)
	return newID, nil
}

func (s *FinanceService) publishAudit(ctx context.Context, companyID uint64, action string, resourceID uint64) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return
	}
	s.bus.Publish(ctx, events.AuditActionEvent{
		CompanyID:    companyID,
		UserID:       userID,
		Action:       action,
		Module:       "finance",
		ResourceID:   resourceID,
		ResourceType: "finance",
	})
}
