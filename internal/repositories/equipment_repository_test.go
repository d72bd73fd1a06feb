package repositories

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"erp-system/internal/entities"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/types"
)

func listFilter() types.Filter {
	return types.Filter{Limit: 50}
}

var testPool *pgxpool.Pool

// TestMain подключается к тестовой БД и применяет схему. Без переменной
// TEST_DATABASE_URL интеграционные тесты пропускаются.
func TestMain(m *testing.M) {
	testDbUrl := os.Getenv("TEST_DATABASE_URL")
	if testDbUrl == "" {
		os.Exit(m.Run())
	}

	var err error
	testPool, err = pgxpool.New(context.Background(), testDbUrl)
	if err != nil {
		log.Fatalf("Не удалось подключиться к тестовой БД: %v", err)
	}
	defer testPool.Close()

	applySchema(testPool)

	os.Exit(m.Run())
}

func applySchema(pool *pgxpool.Pool) {
	path, _ := filepath.Abs("../../testdata/schema.sql")
	schema, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Не удалось прочитать schema.sql: %v", err)
	}
	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		log.Fatalf("Не удалось применить схему БД: %v", err)
	}
}

func requireDB(t *testing.T) {
	t.Helper()
	if testPool == nil {
		t.Skip("TEST_DATABASE_URL не задан, интеграционный тест пропущен")
	}
}

func cleanupTables(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(), `
		TRUNCATE TABLE audit_logs, equipment_transactions, equipments, vehicles, employees,
			users, role_permissions, permissions, roles, branches, companies
		RESTART IDENTITY CASCADE
	`)
	require.NoError(t, err, "Не удалось очистить таблицы")
}

// seedCompany создаёт компанию, филиал, роль и пользователя для тестов склада.
func seedCompany(t *testing.T, pool *pgxpool.Pool) (companyID, branchID, userID uint64) {
	t.Helper()
	ctx := context.Background()

	err := pool.QueryRow(ctx,
		`INSERT INTO companies (name) VALUES ('Тестовая компания') RETURNING id`).Scan(&companyID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx,
		`INSERT INTO branches (company_id, code, name) VALUES ($1, 'HQ', 'Головной офис') RETURNING id`,
		companyID).Scan(&branchID)
	require.NoError(t, err)

	var roleID uint64
	err = pool.QueryRow(ctx,
		`INSERT INTO roles (name) VALUES ('Тестовая роль') RETURNING id`).Scan(&roleID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx, `
		INSERT INTO users (company_id, email, username, password, role_id)
		VALUES ($1, 'tester@erp.local', 'tester', 'x', $2) RETURNING id
	`, companyID, roleID).Scan(&userID)
	require.NoError(t, err)

	return
}

func seedSecondCompany(t *testing.T, pool *pgxpool.Pool) (companyID, branchID uint64) {
	t.Helper()
	ctx := context.Background()

	err := pool.QueryRow(ctx,
		`INSERT INTO companies (name) VALUES ('Вторая компания') RETURNING id`).Scan(&companyID)
	require.NoError(t, err)

	err = pool.QueryRow(ctx,
		`INSERT INTO branches (company_id, code, name) VALUES ($1, 'HQ', 'Офис') RETURNING id`,
		companyID).Scan(&branchID)
	require.NoError(t, err)

	return
}

func seedEquipment(t *testing.T, repo EquipmentRepositoryInterface, companyID, branchID uint64, quantity, available int64) uint64 {
	t.Helper()
	id, err := repo.CreateEquipment(context.Background(), entities.Equipment{
		CompanyID:         companyID,
		BranchID:          branchID,
		SerialNumber:      "SN-001",
		Name:              "Перфоратор",
		Category:          "Инструмент",
		Quantity:          quantity,
		AvailableQuantity: available,
		IsActive:          true,
		Status:            "available",
	})
	require.NoError(t, err)
	return id
}

func TestEquipmentRepository_Integration_CRUD(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	companyID, branchID, _ := seedCompany(t, testPool)

	repo := NewEquipmentRepository(testPool, zap.NewNop())
	id := seedEquipment(t, repo, companyID, branchID, 10, 10)

	found, err := repo.FindEquipment(context.Background(), companyID, id)
	require.NoError(t, err)
	assert.Equal(t, "Перфоратор", found.Name)
	assert.Equal(t, int64(10), found.AvailableQuantity)

	// чужая компания позицию не видит
	_, err = repo.FindEquipment(context.Background(), companyID+1, id)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	// серийный номер глобально уникален: дубль отклоняется даже из другой компании
	otherCompanyID, otherBranchID := seedSecondCompany(t, testPool)
	_, err = repo.CreateEquipment(context.Background(), entities.Equipment{
		CompanyID: otherCompanyID, BranchID: otherBranchID,
		SerialNumber: "SN-001", Name: "Дубль", Category: "Инструмент", Status: "available",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestEquipmentRepository_Integration_TransactionAtomicity(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	companyID, branchID, userID := seedCompany(t, testPool)

	repo := NewEquipmentRepository(testPool, zap.NewNop())
	trxRepo := NewEquipmentTransactionRepository(testPool, zap.NewNop())
	txManager := NewTxManager(testPool)

	id := seedEquipment(t, repo, companyID, branchID, 10, 10)
	ctx := context.Background()

	// журнальная запись и счётчики коммитятся вместе; ошибка откатывает обе
	err := txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		_, err := trxRepo.Insert(ctx, tx, entities.EquipmentTransaction{
			CompanyID: companyID, EquipmentID: id,
			TransactionType: entities.TransactionTypeOut, Quantity: 4, CreatedBy: userID,
		})
		require.NoError(t, err)
		return apperrors.ErrBadRequest // форсируем откат
	})
	require.Error(t, err)

	list, total, err := trxRepo.GetByEquipment(ctx, companyID, id, listFilter())
	require.NoError(t, err)
	assert.Zero(t, total, "откат должен убрать журнальную запись")
	assert.Empty(t, list)

	found, err := repo.FindEquipment(ctx, companyID, id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), found.AvailableQuantity)
}

// 10 конкурентных списаний по 2 из остатка 10: ровно 5 проходят,
// остаток не уходит в минус.
func TestEquipmentRepository_Integration_ConcurrentWithdrawals(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	companyID, branchID, userID := seedCompany(t, testPool)

	repo := NewEquipmentRepository(testPool, zap.NewNop())
	trxRepo := NewEquipmentTransactionRepository(testPool, zap.NewNop())
	txManager := NewTxManager(testPool)

	id := seedEquipment(t, repo, companyID, branchID, 10, 10)

	const workers = 10
	const qty = 2

	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			ctx := context.Background()
			errs[n] = txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
				equipment, err := repo.FindEquipmentForUpdate(ctx, tx, companyID, id)
				if err != nil {
					return err
				}
				if equipment.AvailableQuantity < qty {
					return apperrors.NewInsufficientStockError(id, qty, equipment.AvailableQuantity)
				}
				if _, err := trxRepo.Insert(ctx, tx, entities.EquipmentTransaction{
					CompanyID: companyID, EquipmentID: id,
					TransactionType: entities.TransactionTypeOut, Quantity: qty, CreatedBy: userID,
				}); err != nil {
					return err
				}
				return repo.ApplyStockState(ctx, tx, id,
					equipment.Quantity, equipment.AvailableQuantity-qty, equipment.IsActive)
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	assert.Equal(t, 5, succeeded, "из 10 списаний по 2 должно пройти ровно 5")

	found, err := repo.FindEquipment(context.Background(), companyID, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), found.AvailableQuantity)
	assert.Equal(t, int64(10), found.Quantity)

	_, total, err := trxRepo.GetByEquipment(context.Background(), companyID, id, listFilter())
	require.NoError(t, err)
	assert.Equal(t, uint64(5), total)
}

func TestEquipmentRepository_Integration_LowStockCandidatesOrder(t *testing.T) {
	requireDB(t)
	cleanupTables(t, testPool)
	companyID, branchID, _ := seedCompany(t, testPool)

	repo := NewEquipmentRepository(testPool, zap.NewNop())
	ctx := context.Background()

	for i, q := range []int64{7, 1, 4} {
		_, err := repo.CreateEquipment(ctx, entities.Equipment{
			CompanyID: companyID, BranchID: branchID,
			SerialNumber: "SN-10" + string(rune('0'+i)),
			Name:         "Позиция", Category: "Инструмент",
			Quantity: q, AvailableQuantity: q, IsActive: true, Status: "available",
		})
		require.NoError(t, err)
	}

	candidates, err := repo.GetLowStockCandidates(ctx, companyID, 2)
	require.NoError(t, err)

	// лимит режет выборку до фильтра: приходят два самых дефицитных
	require.Len(t, candidates, 2)
	assert.Equal(t, int64(1), candidates[0].Quantity)
	assert.Equal(t, int64(4), candidates[1].Quantity)
}
