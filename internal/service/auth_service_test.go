package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/config"
	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
	"github.com/jbedje/pme-360-backend-deploy/pkg/jwt"
)

// Redis 仅在 Refresh/Logout 路径用到，这里传 nil 只测注册登录链路
func newTestAuthService() (*AuthService, *repository.Repository) {
	repo := newMockRepository()
	jwtManager := jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-key-0123456789",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	return NewAuthService(repo, jwtManager, nil, zap.NewNop()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	tokens, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:        "Awa Koné",
		Email:       "awa@pme.ci",
		Password:    "motdepasse8",
		ProfileType: model.ProfileStartup,
		Company:     "Koné SARL",
	})
	if err != nil {
		t.Fatalf("Register 失败: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Error("注册应返回令牌对")
	}
	if tokens.ExpiresIn != int((15 * time.Minute).Seconds()) {
		t.Errorf("expires_in 不符: %d", tokens.ExpiresIn)
	}
	if tokens.User.Role != model.RoleUser {
		t.Errorf("新用户角色应为 user，得到 %q", tokens.User.Role)
	}

	logged, err := svc.Login(ctx, &dto.LoginRequest{Email: "awa@pme.ci", Password: "motdepasse8"})
	if err != nil {
		t.Fatalf("Login 失败: %v", err)
	}
	if logged.User.Email != "awa@pme.ci" {
		t.Errorf("登录用户不符: %q", logged.User.Email)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	req := &dto.RegisterRequest{
		Name:        "Awa Koné",
		Email:       "awa@pme.ci",
		Password:    "motdepasse8",
		ProfileType: model.ProfileStartup,
	}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("首次注册失败: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailExists) {
		t.Errorf("期望 ErrEmailExists，得到 %v", err)
	}
}

func TestRegisterInvalidProfileType(t *testing.T) {
	svc, _ := newTestAuthService()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Name:        "Test",
		Email:       "t@pme.ci",
		Password:    "motdepasse8",
		ProfileType: "unicorn",
	})
	if !errors.Is(err, ErrInvalidProfileType) {
		t.Errorf("期望 ErrInvalidProfileType，得到 %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:        "Awa Koné",
		Email:       "awa@pme.ci",
		Password:    "motdepasse8",
		ProfileType: model.ProfileStartup,
	}); err != nil {
		t.Fatalf("注册失败: %v", err)
	}

	// 密码错误与账号不存在返回同一错误
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "awa@pme.ci", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，得到 %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@pme.ci", Password: "whatever"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("期望 ErrInvalidCredentials，得到 %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	tokens, err := svc.Register(ctx, &dto.RegisterRequest{
		Name:        "Awa Koné",
		Email:       "awa@pme.ci",
		Password:    "motdepasse8",
		ProfileType: model.ProfileStartup,
	})
	if err != nil {
		t.Fatalf("注册失败: %v", err)
	}
	userID := tokens.User.ID

	// 原密码错误
	if err := svc.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{
		OldPassword: "wrong",
		NewPassword: "nouveaumdp8",
	}); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("期望 ErrPasswordMismatch，得到 %v", err)
	}

	if err := svc.ChangePassword(ctx, userID, &dto.ChangePasswordRequest{
		OldPassword: "motdepasse8",
		NewPassword: "nouveaumdp8",
	}); err != nil {
		t.Fatalf("ChangePassword 失败: %v", err)
	}

	// 新密码生效，旧密码失效
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "awa@pme.ci", Password: "nouveaumdp8"}); err != nil {
		t.Errorf("新密码登录失败: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "awa@pme.ci", Password: "motdepasse8"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("旧密码应失效，得到 %v", err)
	}
}
