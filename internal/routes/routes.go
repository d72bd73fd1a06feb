package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"erp-system/internal/authz"
	"erp-system/internal/controllers"
	"erp-system/internal/listeners"
	"erp-system/internal/repositories"
	"erp-system/internal/services"
	"erp-system/pkg/config"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/middleware"
	"erp-system/pkg/service"
)

// InitRouter собирает граф зависимостей и вешает маршруты на /api.
// Все маршруты закрыты Auth-middleware; права проверяются на каждом маршруте.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	cfg *config.Config,
	logger *zap.Logger,
) {
	bus := eventbus.New(logger)
	txManager := repositories.NewTxManager(dbConn)

	// Репозитории
	permissionRepo := repositories.NewPermissionRepository(dbConn)
	companyRepo := repositories.NewCompanyRepository(dbConn)
	roleRepo := repositories.NewRoleRepository(dbConn)
	branchRepo := repositories.NewBranchRepository(dbConn)
	userRepo := repositories.NewUserRepository(dbConn)
	employeeRepo := repositories.NewEmployeeRepository(dbConn)
	vehicleRepo := repositories.NewVehicleRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn, logger)
	transactionRepo := repositories.NewEquipmentTransactionRepository(dbConn, logger)
	financeRepo := repositories.NewFinanceRepository(dbConn)
	auditRepo := repositories.NewAuditRepository(dbConn)
	dashboardRepo := repositories.NewDashboardRepository(dbConn)

	// Сервисы
	authPermissionSvc := services.NewAuthPermissionService(permissionRepo, cacheRepo, cfg.Cache.RolePermissionsTTL, logger)
	companySvc := services.NewCompanyService(companyRepo, bus, logger)
	roleSvc := services.NewRoleService(roleRepo, permissionRepo)
	branchSvc := services.NewBranchService(branchRepo, bus, logger)
	userSvc := services.NewUserService(userRepo, bus, logger)
	employeeSvc := services.NewEmployeeService(employeeRepo, branchRepo, bus, logger)
	vehicleSvc := services.NewVehicleService(vehicleRepo, employeeRepo, branchRepo, bus, logger)
	equipmentSvc := services.NewEquipmentService(equipmentRepo, transactionRepo, branchRepo, txManager, bus, logger)
	importerSvc := services.NewEquipmentImporter(equipmentSvc, equipmentRepo, logger)
	financeSvc := services.NewFinanceService(financeRepo, branchRepo, bus, logger)
	dashboardSvc := services.NewDashboardService(dashboardRepo, transactionRepo, logger)
	auditSvc := services.NewAuditService(auditRepo)

	// Слушатели событий
	listeners.NewAuditListener(auditRepo, logger).Register(bus)

	// Контроллеры
	companyCtrl := controllers.NewCompanyController(companySvc, logger)
	branchCtrl := controllers.NewBranchController(branchSvc, logger)
	userCtrl := controllers.NewUserController(userSvc, logger)
	roleCtrl := controllers.NewRoleController(roleSvc, logger)
	employeeCtrl := controllers.NewEmployeeController(employeeSvc, logger)
	vehicleCtrl := controllers.NewVehicleController(vehicleSvc, logger)
	equipmentCtrl := controllers.NewEquipmentController(equipmentSvc, importerSvc, logger)
	financeCtrl := controllers.NewFinanceController(financeSvc, logger)
	dashboardCtrl := controllers.NewDashboardController(dashboardSvc, logger)
	auditCtrl := controllers.NewAuditController(auditSvc, logger)

	authMW := middleware.NewAuthMiddleware(jwtSvc, authPermissionSvc, logger)

	api := e.Group("/api", authMW.Auth)

	RunBranchRouter(api, branchCtrl, authMW)
	RunUserRouter(api, userCtrl, authMW)
	RunRoleRouter(api, roleCtrl, authMW)
	RunEmployeeRouter(api, employeeCtrl, authMW)
	RunVehicleRouter(api, vehicleCtrl, authMW)
	RunEquipmentRouter(api, equipmentCtrl, authMW)
	RunFinanceRouter(api, financeCtrl, authMW)

	api.GET("/company", companyCtrl.GetMyCompany, authMW.Secure(authz.CompanyView))
	api.PUT("/company", companyCtrl.UpdateMyCompany, authMW.Secure(authz.CompanyUpdate))
	api.GET("/dashboard", dashboardCtrl.GetDashboard, authMW.Secure(authz.DashboardView))
	api.GET("/audit-logs", auditCtrl.GetLogs, authMW.Secure(authz.AuditView))
}
