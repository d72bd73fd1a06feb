package services

import (
	"context"
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/repositories"
	"erp-system/pkg/contextkeys"
	apperrors "erp-system/pkg/errors"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/types"
)

// -----------------------------------------------------------
// applyStockDelta — чистый переход состояния
// -----------------------------------------------------------

func TestApplyStockDelta_In(t *testing.T) {
	state := stockState{Quantity: 10, Available: 4, IsActive: false}

	next, err := applyStockDelta(1, state, entities.TransactionTypeIn, 6)

	require.NoError(t, err)
	assert.Equal(t, int64(16), next.Quantity)
	assert.Equal(t, int64(10), next.Available)
	assert.True(t, next.IsActive, "приход должен реактивировать позицию")
}

func TestApplyStockDelta_Return(t *testing.T) {
	state := stockState{Quantity: 10, Available: 2, IsActive: false}

	next, err := applyStockDelta(1, state, entities.TransactionTypeReturn, 3)

	require.NoError(t, err)
	assert.Equal(t, int64(10), next.Quantity, "возврат не меняет накопленный приход")
	assert.Equal(t, int64(5), next.Available)
	assert.True(t, next.IsActive)
}

func TestApplyStockDelta_OutReducesAvailable(t *testing.T) {
	state := stockState{Quantity: 10, Available: 10, IsActive: true}

	next, err := applyStockDelta(1, state, entities.TransactionTypeOut, 4)

	require.NoError(t, err)
	assert.Equal(t, int64(10), next.Quantity)
	assert.Equal(t, int64(6), next.Available)
	assert.True(t, next.IsActive)
}

func TestApplyStockDelta_OutInsufficient(t *testing.T) {
	state := stockState{Quantity: 10, Available: 3, IsActive: true}

	_, err := applyStockDelta(7, state, entities.TransactionTypeOut, 5)

	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, uint64(7), stockErr.EquipmentID)
	assert.Equal(t, int64(5), stockErr.Requested)
	assert.Equal(t, int64(3), stockErr.Available, "в ошибке должен быть фактический остаток")
}

func TestApplyStockDelta_OutExactBalanceKeepsActive(t *testing.T) {
	state := stockState{Quantity: 5, Available: 5, IsActive: true}

	next, err := applyStockDelta(1, state, entities.TransactionTypeOut, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(0), next.Available)
	assert.True(t, next.IsActive, "OUT в ноль не деактивирует позицию")
}

func TestApplyStockDelta_HandoverDrainDeactivates(t *testing.T) {
	state := stockState{Quantity: 5, Available: 5, IsActive: true}

	next, err := applyStockDelta(1, state, entities.TransactionTypeHandover, 5)

	require.NoError(t, err)
	assert.Equal(t, int64(0), next.Available)
	assert.False(t, next.IsActive, "HANDOVER, выбравший остаток, деактивирует позицию")
}

func TestApplyStockDelta_HandoverPartialKeepsActive(t *testing.T) {
	state := stockState{Quantity: 5, Available: 5, IsActive: true}

	next, err := applyStockDelta(1, state, entities.TransactionTypeHandover, 2)

	require.NoError(t, err)
	assert.Equal(t, int64(3), next.Available)
	assert.True(t, next.IsActive)
}

func TestApplyStockDelta_MaintenanceAndRepair(t *testing.T) {
	for _, trxType := range []string{entities.TransactionTypeMaintenance, entities.TransactionTypeRepair} {
		state := stockState{Quantity: 8, Available: 8, IsActive: true}

		next, err := applyStockDelta(1, state, trxType, 8)

		require.NoError(t, err, trxType)
		assert.Equal(t, int64(0), next.Available, trxType)
		assert.True(t, next.IsActive, "%s не деактивирует даже при нулевом остатке", trxType)
	}
}

func TestApplyStockDelta_UnknownTypeRejected(t *testing.T) {
	state := stockState{Quantity: 10, Available: 10, IsActive: true}

	_, err := applyStockDelta(1, state, "TRANSFER", 1)

	var inputErr *apperrors.InvalidInputError
	require.ErrorAs(t, err, &inputErr)
}

// -----------------------------------------------------------
// RecordTransaction — оркестровка движка
// -----------------------------------------------------------

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeEquipmentRepo struct {
	repositories.EquipmentRepositoryInterface

	equipment *entities.Equipment
	applied   *struct {
		quantity, available int64
		isActive            bool
	}
}

func (r *fakeEquipmentRepo) FindEquipmentForUpdate(ctx context.Context, tx pgx.Tx, companyID, id uint64) (*entities.Equipment, error) {
	if r.equipment == nil || r.equipment.ID != id || r.equipment.CompanyID != companyID {
		return nil, apperrors.ErrNotFound
	}
	eq := *r.equipment
	return &eq, nil
}

func (r *fakeEquipmentRepo) ApplyStockState(ctx context.Context, tx pgx.Tx, id uint64, quantity, available int64, isActive bool) error {
	r.applied = &struct {
		quantity, available int64
		isActive            bool
	}{quantity, available, isActive}
	return nil
}

func (r *fakeEquipmentRepo) FindEquipment(ctx context.Context, companyID, id uint64) (*entities.Equipment, error) {
	return r.FindEquipmentForUpdate(ctx, nil, companyID, id)
}

type fakeTransactionRepo struct {
	repositories.EquipmentTransactionRepositoryInterface

	inserted []entities.EquipmentTransaction
}

func (r *fakeTransactionRepo) Insert(ctx context.Context, tx pgx.Tx, trx entities.EquipmentTransaction) (uint64, error) {
	r.inserted = append(r.inserted, trx)
	return uint64(len(r.inserted)), nil
}

func (r *fakeTransactionRepo) GetByEquipment(ctx context.Context, companyID, equipmentID uint64, filter types.Filter) ([]entities.EquipmentTransaction, uint64, error) {
	return []entities.EquipmentTransaction{}, 0, nil
}

// fakeBranchRepo знает ровно один филиал и его компанию.
type fakeBranchRepo struct {
	repositories.BranchRepositoryInterface

	companyID, branchID uint64
}

func (r *fakeBranchRepo) FindBranch(ctx context.Context, companyID, id uint64) (*entities.Branch, error) {
	if companyID != r.companyID || id != r.branchID {
		return nil, apperrors.ErrNotFound
	}
	return &entities.Branch{ID: id, CompanyID: companyID}, nil
}

func actorContext(companyID, userID uint64) context.Context {
	ctx := context.WithValue(context.Background(), contextkeys.UserIDKey, userID)
	return context.WithValue(ctx, contextkeys.CompanyIDKey, companyID)
}

func newTestEquipmentService(equipmentRepo *fakeEquipmentRepo, trxRepo *fakeTransactionRepo) EquipmentServiceInterface {
	logger := zap.NewNop()
	branchRepo := &fakeBranchRepo{companyID: 10, branchID: 1}
	return NewEquipmentService(equipmentRepo, trxRepo, branchRepo, &fakeTxManager{}, eventbus.New(logger), logger)
}

func TestRecordTransaction_NormalizesTypeAndAppliesState(t *testing.T) {
	equipmentRepo := &fakeEquipmentRepo{equipment: &entities.Equipment{
		ID: 1, CompanyID: 10, Quantity: 10, AvailableQuantity: 10, IsActive: true,
	}}
	trxRepo := &fakeTransactionRepo{}
	svc := newTestEquipmentService(equipmentRepo, trxRepo)

	trx, err := svc.RecordTransaction(actorContext(10, 42), dto.CreateTransactionDTO{
		EquipmentID:     1,
		TransactionType: "out",
		Quantity:        4,
		ToLocation:      null.StringFrom("Цех 2"),
	})

	require.NoError(t, err)
	assert.Equal(t, entities.TransactionTypeOut, trx.TransactionType, "тип нормализуется в верхний регистр")
	assert.Equal(t, uint64(42), trx.CreatedBy)
	assert.Equal(t, uint64(10), trx.CompanyID)

	require.Len(t, trxRepo.inserted, 1)
	require.NotNil(t, equipmentRepo.applied)
	assert.Equal(t, int64(10), equipmentRepo.applied.quantity)
	assert.Equal(t, int64(6), equipmentRepo.applied.available)
	assert.True(t, equipmentRepo.applied.isActive)
}

func TestRecordTransaction_InsufficientStockWritesNothing(t *testing.T) {
	equipmentRepo := &fakeEquipmentRepo{equipment: &entities.Equipment{
		ID: 1, CompanyID: 10, Quantity: 10, AvailableQuantity: 2, IsActive: true,
	}}
	trxRepo := &fakeTransactionRepo{}
	svc := newTestEquipmentService(equipmentRepo, trxRepo)

	_, err := svc.RecordTransaction(actorContext(10, 42), dto.CreateTransactionDTO{
		EquipmentID:     1,
		TransactionType: "HANDOVER",
		Quantity:        5,
	})

	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(2), stockErr.Available)

	assert.Empty(t, trxRepo.inserted, "отказ по остатку не должен писать в журнал")
	assert.Nil(t, equipmentRepo.applied, "отказ по остатку не должен менять счётчики")
}

func TestRecordTransaction_ForeignCompanyNotFound(t *testing.T) {
	equipmentRepo := &fakeEquipmentRepo{equipment: &entities.Equipment{
		ID: 1, CompanyID: 99, Quantity: 10, AvailableQuantity: 10, IsActive: true,
	}}
	trxRepo := &fakeTransactionRepo{}
	svc := newTestEquipmentService(equipmentRepo, trxRepo)

	_, err := svc.RecordTransaction(actorContext(10, 42), dto.CreateTransactionDTO{
		EquipmentID:     1,
		TransactionType: "IN",
		Quantity:        1,
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound, "чужая компания видит NotFound, а не Forbidden")
	assert.Empty(t, trxRepo.inserted)
}

// -----------------------------------------------------------
// CreateEquipment — принадлежность филиала
// -----------------------------------------------------------

type creatingEquipmentRepo struct {
	fakeEquipmentRepo

	created []entities.Equipment
}

func (r *creatingEquipmentRepo) CreateEquipment(ctx context.Context, equipment entities.Equipment) (uint64, error) {
	r.created = append(r.created, equipment)
	return uint64(len(r.created)), nil
}

func TestCreateEquipment_ForeignBranchNotFound(t *testing.T) {
	equipmentRepo := &creatingEquipmentRepo{}
	svc := NewEquipmentService(equipmentRepo, &fakeTransactionRepo{},
		&fakeBranchRepo{companyID: 10, branchID: 1},
		&fakeTxManager{}, eventbus.New(zap.NewNop()), zap.NewNop())

	// branch_id=999 не принадлежит компании 10
	_, err := svc.CreateEquipment(actorContext(10, 42), dto.CreateEquipmentDTO{
		BranchID:     999,
		SerialNumber: "SN-777",
		Name:         "Перфоратор",
		Category:     "Инструмент",
		Quantity:     5,
	})

	assert.ErrorIs(t, err, apperrors.ErrNotFound, "чужой филиал отклоняется до вставки")
	assert.Empty(t, equipmentRepo.created, "позиция с чужим филиалом не должна доходить до репозитория")
}

// -----------------------------------------------------------
// GetLowStock — лимит до фильтра по порогу
// -----------------------------------------------------------

type lowStockRepo struct {
	repositories.EquipmentRepositoryInterface

	candidates []entities.Equipment
	gotLimit   int
}

func (r *lowStockRepo) GetLowStockCandidates(ctx context.Context, companyID uint64, limit int) ([]entities.Equipment, error) {
	r.gotLimit = limit
	if limit > len(r.candidates) {
		limit = len(r.candidates)
	}
	return r.candidates[:limit], nil
}

func TestGetLowStock_LimitAppliedBeforeThresholdFilter(t *testing.T) {
	// кандидаты уже отсортированы по возрастанию quantity, как в выборке
	repo := &lowStockRepo{candidates: []entities.Equipment{
		{ID: 1, Name: "Перфоратор", Quantity: 1, LowStockThreshold: 5},
		{ID: 2, Name: "Шуруповёрт", Quantity: 2, LowStockThreshold: 0},
		{ID: 3, Name: "Каска", Quantity: 3, LowStockThreshold: 10},
	}}
	svc := NewEquipmentService(repo, &fakeTransactionRepo{}, &fakeBranchRepo{companyID: 10, branchID: 1}, &fakeTxManager{}, eventbus.New(zap.NewNop()), zap.NewNop())

	items, err := svc.GetLowStock(actorContext(10, 42), 2)

	require.NoError(t, err)
	assert.Equal(t, 2, repo.gotLimit, "лимит уходит в выборку, а не применяется после фильтра")

	// id=2 отрезан фильтром порога (2 > 0), id=3 не попал в выборку из-за лимита
	require.Len(t, items, 1)
	assert.Equal(t, uint64(1), items[0].ID)
}

func TestGetLowStock_DefaultLimit(t *testing.T) {
	repo := &lowStockRepo{}
	svc := NewEquipmentService(repo, &fakeTransactionRepo{}, &fakeBranchRepo{companyID: 10, branchID: 1}, &fakeTxManager{}, eventbus.New(zap.NewNop()), zap.NewNop())

	_, err := svc.GetLowStock(actorContext(10, 42), 0)

	require.NoError(t, err)
	assert.Equal(t, 10, repo.gotLimit)
}
