package types

// Сводка по компании для главного экрана.
type DashboardStats struct {
	TotalEmployees int64   `json:"total_employees"`
	TotalVehicles  int64   `json:"total_vehicles"`
	TotalEquipment int64   `json:"total_equipment"`
	TotalExpenses  float64 `json:"total_expenses"`
	TotalRevenues  float64 `json:"total_revenues"`
	LowStockCount  int64   `json:"low_stock_count"`
}

// Складские агрегаты по компании.
type StockStats struct {
	TotalReceived    int64 `json:"totalReceived"`
	AvailableStock   int64 `json:"availableStock"`
	DistributedStock int64 `json:"distributedStock"`
	TotalTypes       int64 `json:"totalTypes"`
}

type DashboardCountByGroup struct {
	GroupName string `json:"group_name" db:"group_name"`
	Count     int64  `json:"count" db:"count"`
}

type DashboardAmountByGroup struct {
	GroupName string  `json:"group_name" db:"group_name"`
	Amount    float64 `json:"amount" db:"amount"`
}

type DashboardBranchStat struct {
	Name           string `json:"name" db:"name"`
	EmployeeCount  int64  `json:"employee_count" db:"employee_count"`
	VehicleCount   int64  `json:"vehicle_count" db:"vehicle_count"`
	EquipmentCount int64  `json:"equipment_count" db:"equipment_count"`
}
