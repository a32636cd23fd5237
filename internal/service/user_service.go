package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

var ErrUserNotFound = errors.New("用户不存在")

// UserService 用户目录业务逻辑
type UserService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) *UserService {
	return &UserService{repo: repo, logger: logger}
}

// GetByID 查询单个用户公开信息
func (s *UserService) GetByID(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// List 分页浏览用户目录
func (s *UserService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	filters := &repository.UserListFilters{
		ProfileType: req.ProfileType,
		Location:    req.Location,
		Keyword:     req.Keyword,
	}
	users, total, err := s.repo.User.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, *toUserResponse(&users[i]))
	}
	return out, total, nil
}

// Update 更新用户资料（仅允许改动传入的字段）
// userID 为被更新的用户，actorID 记入审计字段；管理员路由可传入任意 userID
func (s *UserService) Update(ctx context.Context, userID, actorID string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Company != nil {
		user.Company = req.Company
	}
	if req.Location != nil {
		user.Location = req.Location
	}
	if req.Description != nil {
		user.Description = req.Description
	}
	if req.Website != nil {
		user.Website = req.Website
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	user.UpdatedBy = &actorID

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Verify 管理员认证用户，重复认证为幂等操作
func (s *UserService) Verify(ctx context.Context, userID, actorID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsVerified {
		user.IsVerified = true
		user.UpdatedBy = &actorID
		if err := s.repo.User.Update(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info("用户已认证",
			zap.String("user_id", userID),
			zap.String("actor_id", actorID))
	}
	return toUserResponse(user), nil
}

// Delete 注销账号（软删除），actorID 记入审计字段
func (s *UserService) Delete(ctx context.Context, userID, actorID string) error {
	if _, err := s.repo.User.GetByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := s.repo.User.Delete(ctx, userID, actorID); err != nil {
		return err
	}

	s.logger.Info("用户已注销",
		zap.String("user_id", userID),
		zap.String("actor_id", actorID))
	return nil
}

func toUserResponse(u *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:          u.UserID,
		Name:        u.Name,
		Email:       u.Email,
		ProfileType: u.ProfileType,
		Role:        u.Role,
		IsVerified:  u.IsVerified,
		Company:     u.Company,
		Location:    u.Location,
		Description: u.Description,
		Website:     u.Website,
		Phone:       u.Phone,
		CreatedAt:   formatTime(u.CreatedAt),
	}
}
