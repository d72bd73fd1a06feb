package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"erp-system/internal/dto"
	"erp-system/internal/entities"
	"erp-system/internal/events"
	"erp-system/internal/repositories"
	"erp-system/pkg/eventbus"
	"erp-system/pkg/types"
	"erp-system/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	bus      *eventbus.Bus
	logger   *zap.Logger
}

func NewUserService(
	userRepo repositories.UserRepositoryInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{userRepo: userRepo, bus: bus, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, 0, err
	}
	return s.userRepo.GetUsers(ctx, companyID, filter)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	return s.userRepo.FindUser(ctx, companyID, id)
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := entities.User{
		CompanyID: companyID,
		Email:     payload.Email,
		Username:  payload.Username,
		FirstName: payload.FirstName.Ptr(),
		LastName:  payload.LastName.Ptr(),
		Password:  string(hash),
		RoleID:    payload.RoleID,
		IsActive:  true,
	}
	if payload.BranchID.Valid {
		v := uint64(payload.BranchID.Int64)
		user.BranchID = &v
	}

	newID, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publishAudit(ctx, companyID, "create", newID)
	return s.userRepo.FindUser(ctx, companyID, newID)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error) {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindUser(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	oldRoleID := user.RoleID

	if payload.Email != nil {
		user.Email = *payload.Email
	}
	if payload.Username != nil {
		user.Username = *payload.Username
	}
	if payload.FirstName.Valid {
		user.FirstName = payload.FirstName.Ptr()
	}
	if payload.LastName.Valid {
		user.LastName = payload.LastName.Ptr()
	}
	if payload.RoleID != nil {
		user.RoleID = *payload.RoleID
	}
	if payload.BranchID.Valid {
		v := uint64(payload.BranchID.Int64)
		user.BranchID = &v
	}
	if payload.IsActive != nil {
		user.IsActive = *payload.IsActive
	}

	if err := s.userRepo.UpdateUser(ctx, companyID, id, *user); err != nil {
		return nil, err
	}

	if payload.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.UpdatePassword(ctx, companyID, id, string(hash)); err != nil {
			return nil, err
		}
	}

	// смена роли меняет набор прав пользователя при следующем запросе;
	// кэш старой роли не трогаем, он общий для всех её носителей
	if payload.RoleID != nil && *payload.RoleID != oldRoleID {
		s.logger.Info("Роль пользователя изменена",
			zap.Uint64("user_id", id),
			zap.Uint64("old_role_id", oldRoleID),
			zap.Uint64("new_role_id", *payload.RoleID),
		)
	}

	s.publishAudit(ctx, companyID, "update", id)
	return s.userRepo.FindUser(ctx, companyID, id)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	companyID, err := utils.GetCompanyIDFromCtx(ctx)
	if err != nil {
		return err
	}
	if err := s.userRepo.DeleteUser(ctx, companyID, id); err != nil {
		return err
	}
	s.publishAudit(ctx, companyID, "delete", id)
	return nil
}

func (s *UserService) publishAudit(ctx context.Context, companyID uint64, action string, resourceID uint64) {
	userID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return
	}
	s.bus.Publish(ctx, events.AuditActionEvent{
		CompanyID:    companyID,
		UserID:       userID,
		Action:       action,
		Module:       "users",
		ResourceID:   resourceID,
		ResourceType: "user",
	})
}
