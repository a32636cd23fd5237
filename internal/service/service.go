package service

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
	"github.com/jbedje/pme-360-backend-deploy/pkg/jwt"
	"github.com/jbedje/pme-360-backend-deploy/pkg/redis"
)

// Notifier 实时推送出口（由 realtime.Gateway 实现）
// 返回值仅表示是否实际送达；推送失败不构成业务错误，
// 通知在推送前已落库，离线用户之后通过 REST 拉取。
type Notifier interface {
	Deliver(userID string, payload interface{}) bool
	Broadcast(payload interface{}) int
	Online() int
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         *AuthService
	User         *UserService
	Opportunity  *OpportunityService
	Event        *EventService
	Resource     *ResourceService
	Message      *MessageService
	Connection   *ConnectionService
	Notification *NotificationService
	Export       *ExportService
	Admin        *AdminService
}

// NewService 创建 Service 聚合，完成依赖注入
func NewService(repo *repository.Repository, jwtManager *jwt.Manager, rdb *redis.Client, notifier Notifier, logger *zap.Logger) *Service {
	notificationSvc := NewNotificationService(repo, notifier, logger)

	return &Service{
		Auth:         NewAuthService(repo, jwtManager, rdb, logger),
		User:         NewUserService(repo, logger),
		Opportunity:  NewOpportunityService(repo, notificationSvc, logger),
		Event:        NewEventService(repo, notificationSvc, logger),
		Resource:     NewResourceService(repo, logger),
		Message:      NewMessageService(repo, notificationSvc, logger),
		Connection:   NewConnectionService(repo, notificationSvc, logger),
		Notification: notificationSvc,
		Export:       NewExportService(repo, logger),
		Admin:        NewAdminService(repo, notificationSvc, notifier, logger),
	}
}

// ── 跨模块小工具 ──

// splitTags 逗号分隔的标签文本转切片
func splitTags(tags *string) []string {
	if tags == nil || *tags == "" {
		return nil
	}
	parts := strings.Split(*tags, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// toUserBrief 用户简要投影（嵌入各资源响应）
func toUserBrief(u *model.User) *dto.UserBrief {
	if u == nil {
		return nil
	}
	return &dto.UserBrief{
		ID:          u.UserID,
		Name:        u.Name,
		ProfileType: u.ProfileType,
		Company:     u.Company,
		IsVerified:  u.IsVerified,
	}
}
