package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"erp-system/pkg/types"
)

type DashboardRepositoryInterface interface {
	GetCounts(ctx context.Context, companyID uint64) (*types.DashboardStats, error)
	GetEquipmentByCategory(ctx context.Context, companyID uint64) ([]types.DashboardCountByGroup, error)
	GetExpensesByCategory(ctx context.Context, companyID uint64) ([]types.DashboardAmountByGroup, error)
	GetBranchStats(ctx context.Context, companyID uint64) ([]types.DashboardBranchStat, error)
}

type DashboardRepository struct {
	storage *pgxpool.Pool
}

func NewDashboardRepository(storage *pgxpool.Pool) DashboardRepositoryInterface {
	return &DashboardRepository{storage: storage}
}

// GetCounts собирает сводку одним запросом вместо шести мелких.
func (r *DashboardRepository) GetCounts(ctx context.Context, companyID uint64) (*types.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE company_id = $1 AND is_active),
			(SELECT COUNT(*) FROM vehicles WHERE company_id = $1),
			(SELECT COUNT(*) FROM equipments WHERE company_id = $1 AND is_active),
			(SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE company_id = $1 AND status = 'approved'),
			(SELECT COALESCE(SUM(amount), 0) FROM revenues WHERE company_id = $1),
			(SELECT COUNT(*) FROM equipments
				WHERE company_id = $1 AND is_active
				AND quantity <= COALESCE(low_stock_threshold, 0))
	`
	stats := &types.DashboardStats{}
	err := r.storage.QueryRow(ctx, query, companyID).Scan(
		&stats.TotalEmployees, &stats.TotalVehicles, &stats.TotalEquipment,
		&stats.TotalExpenses, &stats.TotalRevenues, &stats.LowStockCount,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *DashboardRepository) GetEquipmentByCategory(ctx context.Context, companyID uint64) ([]types.DashboardCountByGroup, error) {
	query := `
		SELECT category, COUNT(*)
		FROM equipments
		WHERE company_id = $1 AND is_active
		GROUP BY category
		ORDER BY COUNT(*) DESC
	`
	rows, err := r.storage.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]types.DashboardCountByGroup, 0)
	for rows.Next() {
		var g types.DashboardCountByGroup
		if err := rows.Scan(&g.GroupName, &g.Count); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *DashboardRepository) GetExpensesByCategory(ctx context.Context, companyID uint64) ([]types.DashboardAmountByGroup, error) {
	query := `
		SELECT category, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE company_id = $1 AND status = 'approved'
		GROUP BY category
		ORDER BY SUM(amount) DESC
	`
	rows, err := r.storage.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	groups := make([]types.DashboardAmountByGroup, 0)
	for rows.Next() {
		var g types.DashboardAmountByGroup
		if err := rows.Scan(&g.GroupName, &g.Amount); err != nil {
			return nil, err
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

func (r *DashboardRepository) GetBranchStats(ctx context.Context, companyID uint64) ([]types.DashboardBranchStat, error) {
	query := `
		SELECT b.name,
			(SELECT COUNT(*) FROM employees e WHERE e.branch_id = b.id AND e.is_active),
			(SELECT COUNT(*) FROM vehicles v WHERE v.branch_id = b.id),
			(SELECT COUNT(*) FROM equipments q WHERE q.branch_id = b.id AND q.is_active)
		FROM branches b
		WHERE b.company_id = $1 AND b.is_active
		ORDER BY b.name
	`
	rows, err := r.storage.Query(ctx, query, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := make([]types.DashboardBranchStat, 0)
	for rows.Next() {
		var s types.DashboardBranchStat
		if err := rows.Scan(&s.Name, &s.EmployeeCount, &s.VehicleCount, &s.EquipmentCount); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
