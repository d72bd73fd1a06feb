package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"erp-system/internal/entities"
	"erp-system/internal/infrastructure/bd"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"
)

var expenseMap = map[string]string{
	"id":           "x.id",
	"branch_id":    "x.branch_id",
	"category":     "x.category",
	"status":       "x.status",
	"expense_date": "x.expense_date",
	"amount":       "x.amount",
	"created_at":   "x.created_at",
}

var revenueMap = map[string]string{
	"id":           "x.id",
	"branch_id":    "x.branch_id",
	"source":       "x.source",
	"status":       "x.status",
	"revenue_date": "x.revenue_date",
	"amount":       "x.amount",
	"created_at":   "x.created_at",
}

type FinanceRepositoryInterface interface {
	GetBudgets(ctx context.Context, companyID uint64, fiscalYear int) ([]entities.Budget, error)
	CreateBudget(ctx context.Context, budget entities.Budget) (uint64, error)
	UpdateBudget(ctx context.Context, companyID uint64, id uint64, budget entities.Budget) error
	DeleteBudget(ctx context.Context, companyID uint64, id uint64) error

	GetExpenses(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Expense, uint64, error)
	FindExpense(ctx context.Context, companyID uint64, id uint64) (*entities.Expense, error)
	CreateExpense(ctx context.Context, expense entities.Expense) (uint64, error)
	SetExpenseStatus(ctx context.Context, companyID uint64, id uint64, status string, approvedBy uint64, notes *string) error

	GetRevenues(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Revenue, uint64, error)
	CreateRevenue(ctx context.Context, revenue entities.Revenue) (uint64, error)

	SumExpenses(ctx context.Context, companyID uint64, from, to *time.Time) (float64, error)
	SumRevenues(ctx context.Context, companyID uint64, from, to *time.Time) (float64, error)
}

type FinanceRepository struct {
	storage *pgxpool.Pool
}

func NewFinanceRepository(storage *pgxpool.Pool) FinanceRepositoryInterface {
	return &FinanceRepository{storage: storage}
}

// -----------------------------------------------------------
// BUDGETS
// -----------------------------------------------------------

func (r *FinanceRepository) GetBudgets(ctx context.Context, companyID uint64, fiscalYear int) ([]entities.Budget, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	queryBuilder := psql.Select(
		"id", "company_id", "branch_id", "name", "category", "amount", "fiscal_year",
		"quarter", "month", "start_date", "end_date", "status", "notes", "created_at", "updated_at",
	).From("budgets").Where(sq.Eq{"company_id": companyID}).OrderBy("fiscal_year DESC, name ASC")

	if fiscalYear > 0 {
		queryBuilder = queryBuilder.Where(sq.Eq{"fiscal_year": fiscalYear})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	budgets := make([]entities.Budget, 0)
	for rows.Next() {
		var b entities.Budget
		var branchID sql.NullInt64
		var quarter, month sql.NullInt32
		var startDate, endDate sql.NullTime
		var notes sql.NullString

		err := rows.Scan(&b.ID, &b.CompanyID, &branchID, &b.Name, &b.Category, &b.Amount, &b.FiscalYear,
			&quarter, &month, &startDate, &endDate, &b.Status, &notes, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, err
		}

		if branchID.Valid {
			v := uint64(branchID.Int64)
			b.BranchID = &v
		}
		if quarter.Valid {
			v := int(quarter.Int32)
			b.Quarter = &v
		}
		if month.Valid {
			v := int(month.Int32)
			b.Month = &v
		}
		if startDate.Valid {
			b.StartDate = &startDate.Time
		}
		if endDate.Valid {
			b.EndDate = &endDate.Time
		}
		if notes.Valid {
			b.Notes = &notes.String
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func (r *FinanceRepository) CreateBudget(ctx context.Context, budget entities.Budget) (uint64, error) {
	var newID uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO budgets (company_id, branch_id, name, category, amount, fiscal_year,
			quarter, month, start_date, end_date, status, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id
	`, budget.CompanyID, budget.BranchID, budget.Name, budget.Category, budget.Amount, budget.FiscalYear,
		budget.Quarter, budget.Month, budget.StartDate, budget.EndDate, budget.Status, budget.Notes).Scan(&newID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, err
	}
	return newID, nil
}

func (r *FinanceRepository) UpdateBudget(ctx context.Context, companyID uint64, id uint64, budget entities.Budget) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE budgets
		SET branch_id = $1, name = $2, category = $3, amount = $4, fiscal_year = $5,
		    quarter = $6, month = $7, start_date = $8, end_date = $9, status = $10, notes = $11, updated_at = NOW()
		WHERE id = $12 AND company_id = $13
	`, budget.BranchID, budget.Name, budget.Category, budget.Amount, budget.FiscalYear,
		budget.Quarter, budget.Month, budget.StartDate, budget.EndDate, budget.Status, budget.Notes, id, companyID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *FinanceRepository) DeleteBudget(ctx context.Context, companyID uint64, id uint64) error {
	result, err := r.storage.Exec(ctx, "DELETE FROM budgets WHERE id = $1 AND company_id = $2", id, companyID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// -----------------------------------------------------------
// EXPENSES
// -----------------------------------------------------------

func scanExpense(row pgx.Row) (*entities.Expense, error) {
	var x entities.Expense
	var approvedBy sql.NullInt64
	var notes sql.NullString

	err := row.Scan(&x.ID, &x.CompanyID, &x.BranchID, &x.Category, &x.Amount, &x.Description,
		&x.ExpenseDate, &x.Status, &x.CreatedBy, &approvedBy, &notes, &x.CreatedAt, &x.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if approvedBy.Valid {
		v := uint64(approvedBy.Int64)
		x.ApprovedBy = &v
	}
	if notes.Valid {
		x.Notes = &notes.String
	}
	return &x, nil
}

const expenseColumns = `
	x.id, x.company_id, x.branch_id, x.category, x.amount, x.description,
	x.expense_date, x.status, x.created_by, x.approved_by, x.notes, x.created_at, x.updated_at
`

func (r *FinanceRepository) GetExpenses(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Expense, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := bd.ApplyListParams(
		psql.Select("COUNT(x.id)").From("expenses AS x").Where(sq.Eq{"x.company_id": companyID}),
		countFilter, expenseMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Expense{}, 0, nil
	}

	baseBuilder := psql.Select(expenseColumns).From("expenses AS x").Where(sq.Eq{"x.company_id": companyID})
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("x.expense_date DESC, x.id DESC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, expenseMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	expenses := make([]entities.Expense, 0, filter.Limit)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, 0, err
		}
		expenses = append(expenses, *expense)
	}
	return expenses, total, rows.Err()
}

func (r *FinanceRepository) FindExpense(ctx context.Context, companyID uint64, id uint64) (*entities.Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses AS x WHERE x.id = $1 AND x.company_id = $2"
	return scanExpense(r.storage.QueryRow(ctx, query, id, companyID))
}

func (r *FinanceRepository) CreateExpense(ctx context.Context, expense entities.Expense) (uint64, error) {
	var newID uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO expenses (company_id, branch_id, category, amount, description,
			expense_date, status, created_by, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id
	`, expense.CompanyID, expense.BranchID, expense.Category, expense.Amount, expense.Description,
		expense.ExpenseDate, expense.Status, expense.CreatedBy, expense.Notes).Scan(&newID)
	if err != nil {
		return 0, err
	}
	return newID, nil
}

// SetExpenseStatus переводит расход из pending: повторное согласование
// уже обработанного расхода отклоняется условием по status.
func (r *FinanceRepository) SetExpenseStatus(ctx context.Context, companyID uint64, id uint64, status string, approvedBy uint64, notes *string) error {
	result, err := r.storage.Exec(ctx, `
		UPDATE expenses
		SET status = $1, approved_by = $2, notes = COALESCE($3, notes), updated_at = NOW()
		WHERE id = $4 AND company_id = $5 AND status = $6
	`, status, approvedBy, notes, id, companyID, entities.ExpenseStatusPending)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		// либо нет такой записи, либо она уже обработана
		if _, findErr := r.FindExpense(ctx, companyID, id); findErr != nil {
			return findErr
		}
		return apperrors.ErrConflict
	}
	return nil
}

// -----------------------------------------------------------
// REVENUES
// -----------------------------------------------------------

const revenueColumns = `
	x.id, x.company_id, x.branch_id, x.source, x.amount, x.description,
	x.revenue_date, x.status, x.created_by, x.created_at, x.updated_at
`

func (r *FinanceRepository) GetRevenues(ctx context.Context, companyID uint64, filter types.Filter) ([]entities.Revenue, uint64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

	countFilter := filter
	countFilter.WithPagination = false
	countFilter.Sort = nil
	countBuilder := bd.ApplyListParams(
		psql.Select("COUNT(x.id)").From("revenues AS x").Where(sq.Eq{"x.company_id": companyID}),
		countFilter, revenueMap)

	var total uint64
	sqlCount, argsCount, _ := countBuilder.ToSql()
	if err := r.storage.QueryRow(ctx, sqlCount, argsCount...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Revenue{}, 0, nil
	}

	baseBuilder := psql.Select(revenueColumns).From("revenues AS x").Where(sq.Eq{"x.company_id": companyID})
	if len(filter.Sort) == 0 {
		baseBuilder = baseBuilder.OrderBy("x.revenue_date DESC, x.id DESC")
	}
	baseBuilder = bd.ApplyListParams(baseBuilder, filter, revenueMap)

	query, args, err := baseBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	revenues := make([]entities.Revenue, 0, filter.Limit)
	for rows.Next() {
		var x entities.Revenue
		var description sql.NullString
		err := rows.Scan(&x.ID, &x.CompanyID, &x.BranchID, &x.Source, &x.Amount, &description,
			&x.RevenueDate, &x.Status, &x.CreatedBy, &x.CreatedAt, &x.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		if description.Valid {
			x.Description = &description.String
		}
		revenues = append(revenues, x)
	}
	return revenues, total, rows.Err()
}

func (r *FinanceRepository) CreateRevenue(ctx context.Context, revenue entities.Revenue) (uint64, error) {
	var newID uint64
	err := r.storage.QueryRow(ctx, `
		INSERT INTO revenues (company_id, branch_id, source, amount, description,
			revenue_date, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id
	`, revenue.CompanyID, revenue.BranchID, revenue.Source, revenue.Amount, revenue.Description,
		revenue.RevenueDate, revenue.Status, revenue.CreatedBy).Scan(&newID)
	if err != nil {
		return 0, err
	}
	return newID, nil
}

// -----------------------------------------------------------
// AGGREGATES (для дашборда)
// -----------------------------------------------------------

func (r *FinanceRepository) SumExpenses(ctx context.Context, companyID uint64, from, to *time.Time) (float64, error) {
	return r.sumAmount(ctx, "expenses", "expense_date", "status = 'approved'", companyID, from, to)
}

func (r *FinanceRepository) SumRevenues(ctx context.Context, companyID uint64, from, to *time.Time) (float64, error) {
	return r.sumAmount(ctx, "revenues", "revenue_date", "", companyID, from, to)
}

func (r *FinanceRepository) sumAmount(ctx context.Context, table, dateColumn, extraCond string, companyID uint64, from, to *time.Time) (float64, error) {
	psql := sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	queryBuilder := psql.Select("COALESCE(SUM(amount), 0)").From(table).Where(sq.Eq{"company_id": companyID})
	if extraCond != "" {
		queryBuilder = queryBuilder.Where(extraCond)
	}
	if from != nil {
		queryBuilder = queryBuilder.Where(sq.GtOrEq{dateColumn: *from})
	}
	if to != nil {
		queryBuilder = queryBuilder.Where(sq.LtOrEq{dateColumn: *to})
	}

	query, args, err := queryBuilder.ToSql()
	if err != nil {
		return 0, err
	}

	var sum float64
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return 0, err
	}
	return sum, nil
}
