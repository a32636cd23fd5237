package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

func newTestUserService() (*UserService, *repository.Repository) {
	repo := newMockRepository()
	return NewUserService(repo, zap.NewNop()), repo
}

func TestVerifyUserIdempotent(t *testing.T) {
	svc, repo := newTestUserService()
	ctx := context.Background()
	seedUser(t, repo, "u1", "Aminata")

	first, err := svc.Verify(ctx, "u1", "admin")
	if err != nil {
		t.Fatalf("Verify 失败: %v", err)
	}
	if !first.IsVerified {
		t.Error("认证后 IsVerified 应为 true")
	}

	second, err := svc.Verify(ctx, "u1", "admin")
	if err != nil {
		t.Fatalf("重复认证不应报错: %v", err)
	}
	if !second.IsVerified {
		t.Error("重复认证后状态应保持 true")
	}
}

func TestVerifyUserNotFound(t *testing.T) {
	svc, _ := newTestUserService()

	if _, err := svc.Verify(context.Background(), "ghost", "admin"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，得到 %v", err)
	}
}

func TestUpdateUserRecordsActor(t *testing.T) {
	svc, repo := newTestUserService()
	ctx := context.Background()
	seedUser(t, repo, "u1", "Aminata")

	name := "Aminata Koné"
	if _, err := svc.Update(ctx, "u1", "admin", &dto.UpdateUserRequest{Name: &name}); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	stored, _ := repo.User.GetByID(ctx, "u1")
	if stored.Name != name {
		t.Errorf("名称未更新，得到 %q", stored.Name)
	}
	if stored.UpdatedBy == nil || *stored.UpdatedBy != "admin" {
		t.Errorf("UpdatedBy 应记录操作者，得到 %v", stored.UpdatedBy)
	}
}

func TestDeleteUserNotFound(t *testing.T) {
	svc, _ := newTestUserService()

	if err := svc.Delete(context.Background(), "ghost", "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("期望 ErrUserNotFound，得到 %v", err)
	}
}
