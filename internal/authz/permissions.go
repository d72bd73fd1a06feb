// internal/authz/permissions.go
package authz

// --- СПИСОК ВСЕХ ПЕРМИШЕНОВ В СИСТЕМЕ ---

const (
	// Глобальные
	Superuser = "superuser"

	// Склад (Equipment)
	EquipmentCreate       = "equipment:create"
	EquipmentView         = "equipment:view"
	EquipmentUpdate       = "equipment:update"
	EquipmentDelete       = "equipment:delete"
	EquipmentTransactions = "equipment:transactions"
	EquipmentImport       = "equipment:import"
	EquipmentExport       = "equipment:export"

	// Пользователи (Users)
	UsersCreate = "users:create"
	UsersView   = "users:view"
	UsersUpdate = "users:update"
	UsersDelete = "users:delete"

	// Структура (Branches)
	BranchesCreate = "branches:create"
	BranchesView   = "branches:view"
	BranchesUpdate = "branches:update"
	BranchesDelete = "branches:delete"

	// Сотрудники (Employees)
	EmployeesCreate = "employees:create"
	EmployeesView   = "employees:view"
	EmployeesUpdate = "employees:update"
	EmployeesDelete = "employees:delete"

	// Транспорт (Vehicles)
	VehiclesCreate = "vehicles:create"
	VehiclesView   = "vehicles:view"
	VehiclesUpdate = "vehicles:update"
	VehiclesDelete = "vehicles:delete"

	// Финансы (Finance)
	FinanceCreate  = "finance:create"
	FinanceView    = "finance:view"
	FinanceUpdate  = "finance:update"
	FinanceDelete  = "finance:delete"
	FinanceApprove = "finance:approve"

	// Компания (Company)
	CompanyView   = "company:view"
	CompanyUpdate = "company:update"

	// Служебные
	DashboardView = "dashboard:view"
	AuditView     = "audit:view"
)

// All перечисляет привилегии для сидера.
var All = []string{
	Superuser,
	EquipmentCreate, EquipmentView, EquipmentUpdate, EquipmentDelete,
	EquipmentTransactions, EquipmentImport, EquipmentExport,
	UsersCreate, UsersView, UsersUpdate, UsersDelete,
	BranchesCreate, BranchesView, BranchesUpdate, BranchesDelete,
	EmployeesCreate, EmployeesView, EmployeesUpdate, EmployeesDelete,
	VehiclesCreate, VehiclesView, VehiclesUpdate, VehiclesDelete,
	FinanceCreate, FinanceView, FinanceUpdate, FinanceDelete, FinanceApprove,
	CompanyView, CompanyUpdate,
	DashboardView, AuditView,
}
