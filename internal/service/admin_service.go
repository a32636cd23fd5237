package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
)

// AdminService 管理端业务逻辑
type AdminService struct {
	repo         *repository.Repository
	notification *NotificationService
	notifier     Notifier
	logger       *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(repo *repository.Repository, notification *NotificationService, notifier Notifier, logger *zap.Logger) *AdminService {
	return &AdminService{repo: repo, notification: notification, notifier: notifier, logger: logger}
}

// Stats 平台各业务对象总量统计
func (s *AdminService) Stats(ctx context.Context) (*dto.PlatformStatsResponse, error) {
	stats := &dto.PlatformStatsResponse{}

	counters := []struct {
		dest  *int64
		count func(context.Context) (int64, error)
	}{
		{&stats.Users, s.repo.User.Count},
		{&stats.Opportunities, s.repo.Opportunity.Count},
		{&stats.Applications, s.repo.Application.Count},
		{&stats.Events, s.repo.Event.Count},
		{&stats.Resources, s.repo.Resource.Count},
		{&stats.Messages, s.repo.Message.Count},
		{&stats.Notifications, s.repo.Notification.Count},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, err
		}
		*c.dest = n
	}

	return stats, nil
}

// Online 当前在线（已建立实时连接）的用户数
func (s *AdminService) Online() int {
	if s.notifier == nil {
		return 0
	}
	return s.notifier.Online()
}

// Broadcast 系统广播：给全部用户落库一条系统通知，并向在线用户推送一帧
// 落库逐用户执行，单条失败跳过不中断
func (s *AdminService) Broadcast(ctx context.Context, req *dto.BroadcastRequest) (*dto.BroadcastResponse, error) {
	userIDs, err := s.repo.User.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	var persisted int64
	for _, userID := range userIDs {
		notif := &model.Notification{
			UserID:   userID,
			Category: model.NotificationSystem,
			Title:    req.Title,
			Body:     req.Body,
		}
		if err := s.repo.Notification.Create(ctx, notif); err != nil {
			s.logger.Warn("广播通知落库失败",
				zap.String("user_id", userID), zap.Error(err))
			continue
		}
		persisted++
	}

	delivered := 0
	if s.notifier != nil {
		delivered = s.notifier.Broadcast(map[string]string{
			"category": model.NotificationSystem,
			"title":    req.Title,
			"body":     req.Body,
		})
	}

	s.logger.Info("系统广播完成",
		zap.Int64("persisted", persisted),
		zap.Int("delivered", delivered))

	return &dto.BroadcastResponse{Persisted: persisted, Delivered: delivered}, nil
}
