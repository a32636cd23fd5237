package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

var (
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrInvalidCategory      = errors.New("通知类别不合法")
)

// NotificationService 通知业务逻辑
// 投递管线固定为两步：先落库（唯一可信来源），再尽力实时推送。
// 推送失败只记日志，绝不向触发方返回错误。
type NotificationService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
func NewNotificationService(repo *repository.Repository, notifier Notifier, logger *zap.Logger) *NotificationService {
	return &NotificationService{repo: repo, notifier: notifier, logger: logger}
}

// Dispatch 创建一条通知并尽力实时推送
// 落库失败返回错误；推送结果不影响返回值
func (s *NotificationService) Dispatch(ctx context.Context, userID, category, title, body string, payload interface{}, actionURL string) error {
	if !model.ValidNotificationCategory(category) {
		return ErrInvalidCategory
	}

	notif := &model.Notification{
		NotificationID: uuid.New().String(),
		UserID:         userID,
		Category:       category,
		Title:          title,
		Body:           body,
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		text := string(raw)
		notif.Payload = &text
	}
	if actionURL != "" {
		notif.ActionURL = &actionURL
	}

	if err := s.repo.Notification.Create(ctx, notif); err != nil {
		return err
	}

	if s.notifier != nil {
		delivered := s.notifier.Deliver(userID, toNotificationResponse(notif))
		s.logger.Debug("通知投递",
			zap.String("notification_id", notif.NotificationID),
			zap.String("user_id", userID),
			zap.String("category", category),
			zap.Bool("delivered", delivered))
	}

	return nil
}

// List 分页查询当前用户的通知
func (s *NotificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	if req.Category != "" && !model.ValidNotificationCategory(req.Category) {
		return nil, 0, ErrInvalidCategory
	}

	filters := &repository.NotificationListFilters{
		Category: req.Category,
		IsRead:   req.IsRead,
		Keyword:  req.Keyword,
	}
	notifs, total, err := s.repo.Notification.List(ctx, userID, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.NotificationResponse, 0, len(notifs))
	for i := range notifs {
		out = append(out, *toNotificationResponse(&notifs[i]))
	}
	return out, total, nil
}

// MarkRead 将通知标记为已读（幂等）
// 归属他人的通知与不存在的通知同样返回 ErrNotificationNotFound，不泄露存在性
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID string) error {
	notif, err := s.repo.Notification.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notif.UserID != userID {
		return ErrNotificationNotFound
	}
	if notif.IsRead {
		return nil // 重复标记不报错
	}
	return s.repo.Notification.MarkRead(ctx, notificationID)
}

// MarkAllRead 将当前用户全部未读通知标记为已读，返回实际更新条数
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification.MarkAllRead(ctx, userID)
}

// Delete 删除一条通知（硬删除）
func (s *NotificationService) Delete(ctx context.Context, userID, notificationID string) error {
	notif, err := s.repo.Notification.GetByID(ctx, notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	if notif.UserID != userID {
		return ErrNotificationNotFound
	}
	return s.repo.Notification.Delete(ctx, notificationID)
}

// UnreadCount 当前用户未读通知数
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

// Sweep 清理超过保留期的已读通知，返回删除条数
// 未读通知不受保留期影响
func (s *NotificationService) Sweep(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	deleted, err := s.repo.Notification.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("已读通知清理完成",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
	return deleted, nil
}

func toNotificationResponse(n *model.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.NotificationID,
		Category:  n.Category,
		Title:     n.Title,
		Body:      n.Body,
		ActionURL: n.ActionURL,
		IsRead:    n.IsRead,
		CreatedAt: formatTime(n.CreatedAt),
	}
	if n.Payload != nil {
		resp.Payload = json.RawMessage(*n.Payload)
	}
	return resp
}
