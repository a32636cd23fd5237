package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
	"github.com/jbedje/pme-360-backend-deploy/pkg/jwt"
	"github.com/jbedje/pme-360-backend-deploy/pkg/redis"
)

var (
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrInvalidProfileType = errors.New("档案类型不合法")
	ErrRefreshInvalid     = errors.New("刷新令牌无效")
	ErrPasswordMismatch   = errors.New("原密码错误")
)

// AuthService 认证业务逻辑
type AuthService struct {
	repo       *repository.Repository
	jwtManager *jwt.Manager
	rdb        *redis.Client
	logger     *zap.Logger
}

// NewAuthService 创建 AuthService 实例
func NewAuthService(repo *repository.Repository, jwtManager *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, jwtManager: jwtManager, rdb: rdb, logger: logger}
}

// Register 注册新用户并返回令牌对
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if !model.ValidProfileType(req.ProfileType) {
		return nil, ErrInvalidProfileType
	}

	if _, err := s.repo.User.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		ProfileType:  req.ProfileType,
		Role:         model.RoleUser,
	}
	if req.Company != "" {
		user.Company = &req.Company
	}
	if req.Location != "" {
		user.Location = &req.Location
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("用户注册成功",
		zap.String("user_id", user.UserID),
		zap.String("profile_type", user.ProfileType))

	return s.issueTokenPair(user)
}

// Login 邮箱密码登录
// 邮箱不存在与密码错误返回同一错误，不泄露账号存在性
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	s.logger.Info("用户登录成功", zap.String("user_id", user.UserID))

	return s.issueTokenPair(user)
}

// Refresh 用刷新令牌换取新令牌对（旋转：旧刷新令牌作废）
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtManager.ParseToken(refreshToken)
	if err != nil || claims.TokenType != "refresh" {
		return nil, ErrRefreshInvalid
	}

	blacklisted, err := s.rdb.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, ErrRefreshInvalid
	}

	// 用户可能已被注销
	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshInvalid
		}
		return nil, err
	}

	if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return nil, err
	}

	return s.issueTokenPair(user)
}

// Logout 注销：将当前访问令牌与刷新令牌加入黑名单
// 刷新令牌可选，解析失败时静默忽略
func (s *AuthService) Logout(ctx context.Context, accessClaims *jwt.Claims, refreshToken string) error {
	if err := s.rdb.BlacklistToken(ctx, accessClaims.ID, time.Until(accessClaims.ExpiresAt.Time)); err != nil {
		return err
	}

	if refreshToken != "" {
		if claims, err := s.jwtManager.ParseToken(refreshToken); err == nil && claims.TokenType == "refresh" {
			if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
				return err
			}
		}
	}

	s.logger.Info("用户注销", zap.String("user_id", accessClaims.UserID))
	return nil
}

// GetCurrentUser 查询当前登录用户信息
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

// ChangePassword 修改密码（校验原密码）
func (s *AuthService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedBy = &userID
	if err := s.repo.User.Update(ctx, user); err != nil {
		return err
	}

	s.logger.Info("用户修改密码", zap.String("user_id", userID))
	return nil
}

func (s *AuthService) issueTokenPair(user *model.User) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.UserID, user.Email, user.Role, user.IsVerified)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.UserID, user.Email, user.Role, user.IsVerified)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtManager.AccessTokenTTL().Seconds()),
		User:         *toUserResponse(user),
	}, nil
}
