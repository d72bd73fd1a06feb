package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.Filter) (*dto.EquipmentListDTO, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error)
	DeleteEquipment(ctx context.Context, id uint64) error

	RecordTransaction(ctx context.Context, payload dto.CreateTransactionDTO) (*entities.EquipmentTransaction, error)
	GetTransactions(ctx context.Context, equipmentID uint64, filter types.Filter) ([]entities.EquipmentTransaction, uint64, error)
	GetLowStock(ctx context.Context, limit int) ([]dto.LowStockItemDTO, error)
}

type EquipmentService struct {
	equipmentRepo   repositories.EquipmentRepositoryInterface
	transactionRepo repositories.EquipmentTransactionRepositoryInterface
	branchRepo      repositories.BranchRepositoryInterface
	txManager       repositories.TxManagerInterface
	bus             *eventbus.Bus
	logger          *zap.Logger
}

func NewEquipmentService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	transactionRepo repositories.EquipmentTransactionRepositoryInterface,
	branchRepo repositories.BranchRepositoryInterface,
	txManager repositories.TxManagerInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepo:   equipmentRepo,
		transactionRepo: transactionRepo,
		branchRepo:      branchRepo,
		txManager:       txManager,
		bus:             bus,
		logger:          logger,
	}
}

// -----------------------------------------------------------
// ДВИЖОК ОСТАТКОВ
// -----------------------------------------------------------

// stockState — счётчики позиции, над которыми работает движок.
type stockState struct {
	Quantity  int64
	Available int64
	IsActive  bool
}

// applyStockDelta — чистая функция перехода состояния по типу движения.
// IN пополняет приход и остаток, RETURN возвращает ранее выданное,
// OUT/HANDOVER/MAINTENANCE/REPAIR списывают с остатка с проверкой достатка.
// HANDOVER, выбравший остаток в ноль, деактивирует позицию.
// Неизвестный тип — ошибка валидации, а не тихий no-op.
func applyStockDelta(equipmentID uint64, state stockState, trxType string, qty int64) (stockState, error) {
	switch trxType {
	case entities.TransactionTypeIn:
		state.Quantity += qty
		state.Available += qty
		state.IsActive = true

	case entities.TransactionTypeReturn:
		state.Available += qty
		state.IsActive = true

	case entities.TransactionTypeOut,
		entities.TransactionTypeHandover,
		entities.TransactionTypeMaintenance,
		entities.TransactionTypeRepair:
		if state.Available < qty {
			return state, errors.NewInsufficientStockError(equipmentID, qty, state.Available)
		}
		state.Available -= qty
		if trxType == entities.TransactionTypeHandover && state.Available <= 0 {
			state.IsActive = false
		}

	default:
		return state, errors.NewInvalidInputError("неизвестный тип движения: %s", trxType)
	}

	return state, nil
}

// RecordTransaction проводит движение атомарно: строка позиции блокируется
// FOR UPDATE, в журнал пишется запись, затем счётчики обновляются тем же
// коммитом. Конкурирующие списания сериализуются на блокировке строки,
// поэтому остаток не может уйти в минус.
func (s *EquipmentService) RecordTransaction(ctx context.Context, payload dto.CreateTransactionDTO) (*entities.EquipmentTransaction, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	trxType := strings.ToUpper(strings.TrimSpace(payload.TransactionType))

	trx := entities.EquipmentTransaction{
		CompanyID:       companyID,
		EquipmentID:     payload.EquipmentID,
		TransactionType: trxType,
		Quantity:        payload.Quantity,
		FromLocation:    payload.FromLocation.Ptr(),
		ToLocation:      payload.ToLocation.Ptr(),
		Notes:           payload.Notes.Ptr(),
		Reference:       payload.Reference.Ptr(),
		CreatedBy:       userID,
		CreatedAt:       time.Now(),
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		equipment, err := s.equipmentRepo.FindEquipmentForUpdate(ctx, tx, companyID, payload.EquipmentID)
		if err != nil {
			return err
		}

		next, err := applyStockDelta(equipment.ID, stockState{
			Quantity:  equipment.Quantity,
			Available: equipment.AvailableQuantity,
			IsActive:  equipment.IsActive,
		}, trxType, payload.Quantity)
		if err != nil {
			return err
		}

		newID, err := s.transactionRepo.Insert(ctx, tx, trx)
		if err != nil {
			return err
		}
		trx.ID = newID

		return s.equipmentRepo.ApplyStockState(ctx, tx, equipment.ID, next.Quantity, next.Available, next.IsActive)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Движение по складу проведено",
		zap.Uint64("equipment_id", trx.EquipmentID),
		zap.String("type", trx.TransactionType),
		zap.Int64("quantity", trx.Quantity),
	)
	s.publishAudit(ctx, companyID, userID, "transaction:"+strings.ToLower(trxType), trx.EquipmentID)

	return &trx, nil
}

func (s *EquipmentService) GetTransactions(ctx context.Context, equipmentID uint64, filter types.Filter) ([]entities.EquipmentTransaction, uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	// позиция должна существовать и принадлежать компании
	if _, err := s.equipmentRepo.FindEquipment(ctx, companyID, equipmentID); err != nil {
		return nil, 0, err
	}
	return s.transactionRepo.GetByEquipment(ctx, companyID, equipmentID, filter)
}

// GetLowStock возвращает позиции, чей приход не превышает порог.
// Репозиторий режет выборку по limit до фильтрации порога: кандидаты идут
// по возрастанию quantity, так что первые k строк — самые дефицитные.
func (s *EquipmentService) GetLowStock(ctx context.Context, limit int) ([]dto.LowStockItemDTO, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	candidates, err := s.equipmentRepo.GetLowStockCandidates(ctx, companyID, limit)
	if err != nil {
		return nil, err
	}

	items := make([]dto.LowStockItemDTO, 0, len(candidates))
	for _, e := range candidates {
		if e.Quantity > e.LowStockThreshold {
			continue
		}
		items = append(items, dto.LowStockItemDTO{
			ID:                e.ID,
			Name:              e.Name,
			Category:          e.Category,
			SerialNumber:      e.SerialNumber,
			Quantity:          e.Quantity,
			LowStockThreshold: e.LowStockThreshold,
		})
	}
	return items, nil
}

// -----------------------------------------------------------
// CRUD
// -----------------------------------------------------------

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.Filter) (*dto.EquipmentListDTO, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	// явный фильтр по is_active отменяет скрытие неактивных
	_, includeInactive := filter.Filter["is_active"]

	list, total, err := s.equipmentRepo.GetEquipments(ctx, companyID, filter, includeInactive)
	if err != nil {
		return nil, err
	}

	stats, err := s.equipmentRepo.GetStockStats(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &dto.EquipmentListDTO{List: list, Total: total, Stats: *stats}, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepo.FindEquipment(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	recent, _, err := s.transactionRepo.GetByEquipment(ctx, companyID, id, types.Filter{Limit: 20})
	if err != nil {
		return nil, err
	}
	equipment.Transactions = recent
	return equipment, nil
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, payload dto.CreateEquipmentDTO) (*entities.Equipment, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	// филиал должен принадлежать компании вызывающего
	if _, err := s.branchRepo.FindBranch(ctx, companyID, payload.BranchID); err != nil {
		return nil, err
	}

	available := payload.Quantity
	if payload.AvailableQuantity.Valid {
		available = payload.AvailableQuantity.Int64
		if available > payload.Quantity {
			return nil, errors.NewInvalidInputError("остаток не может превышать приход")
		}
	}

	qr := uuid.NewString()
	equipment := entities.Equipment{
		CompanyID:         companyID,
		BranchID:          payload.BranchID,
		SerialNumber:      payload.SerialNumber,
		Name:              payload.Name,
		Category:          payload.Category,
		Description:       payload.Description.Ptr(),
		Manufacturer:      payload.Manufacturer.Ptr(),
		Model:             payload.Model.Ptr(),
		Location:          payload.Location.Ptr(),
		Condition:         payload.Condition.Ptr(),
		Notes:             payload.Notes.Ptr(),
		Quantity:          payload.Quantity,
		AvailableQuantity: available,
		LowStockThreshold: payload.LowStockThreshold,
		IsActive:          true,
		Status:            "available",
		QRCode:            &qr,
	}

	newID, err := s.equipmentRepo.CreateEquipment(ctx, equipment)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, userID, "create", newID)
	return s.equipmentRepo.FindEquipment(ctx, companyID, newID)
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO) (*entities.Equipment, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	equipment, err := s.equipmentRepo.FindEquipment(ctx, companyID, id)
	if err != nil {
		return nil, err
	}

	if payload.Name != nil {
		equipment.Name = *payload.Name
	}
	if payload.Category != nil {
		equipment.Category = *payload.Category
	}
	if payload.Description.Valid {
		equipment.Description = payload.Description.Ptr()
	}
	if payload.Manufacturer.Valid {
		equipment.Manufacturer = payload.Manufacturer.Ptr()
	}
	if payload.Model.Valid {
		equipment.Model = payload.Model.Ptr()
	}
	if payload.Location.Valid {
		equipment.Location = payload.Location.Ptr()
	}
	if payload.Condition.Valid {
		equipment.Condition = payload.Condition.Ptr()
	}
	if payload.Notes.Valid {
		equipment.Notes = payload.Notes.Ptr()
	}
	if payload.LowStockThreshold != nil {
		equipment.LowStockThreshold = *payload.LowStockThreshold
	}
	if payload.Status != nil {
		equipment.Status = *payload.Status
	}
	if payload.IsActive != nil {
		equipment.IsActive = *payload.IsActive
	}

	if err := s.equipmentRepo.UpdateEquipment(ctx, companyID, id, *equipment); err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, userID, "update", id)
	return s.equipmentRepo.FindEquipment(ctx, companyID, id)
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64) error {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return err
	}
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return err
	}

	if err := s.equipmentRepo.DeleteEquipment(ctx, companyID, id); err != nil {
		return err
	}

	s.publishAudit(ctx, companyID, userID, "delete", id)
	return nil
}

func (s *EquipmentService) publishAudit(ctx context.Context, companyID, userID uint64, action string, resourceID uint64) {
	s.bus.Publish(ctx, events.AuditActionEvent{
		CompanyID:    companyID,
		UserID:       userID,
		Action:       action,
		Module:       "equipment",
		ResourceID:   resourceID,
		ResourceType: "equipment",
	})
}
