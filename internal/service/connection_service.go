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

var (
	ErrConnectionExists   = errors.New("已存在人脉请求")
	ErrConnectionNotFound = errors.New("人脉请求不存在")
	ErrSelfConnection     = errors.New("不能向自己发起人脉请求")
	ErrConnectionDecided  = errors.New("人脉请求已处理")
)

// ConnectionService 人脉请求业务逻辑
type ConnectionService struct {
	repo         *repository.Repository
	notification *NotificationService
	logger       *zap.Logger
}

// NewConnectionService 创建 ConnectionService 实例
func NewConnectionService(repo *repository.Repository, notification *NotificationService, logger *zap.Logger) *ConnectionService {
	return &ConnectionService{repo: repo, notification: notification, logger: logger}
}

// Send 发起人脉请求，成功后通知对方
// 双向去重：任一方向已有请求即拒绝重复发起
func (s *ConnectionService) Send(ctx context.Context, requesterID string, req *dto.SendConnectionRequest) (*dto.ConnectionResponse, error) {
	if requesterID == req.RecipientID {
		return nil, ErrSelfConnection
	}

	requester, err := s.repo.User.GetByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.User.GetByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	if _, err := s.repo.Connection.GetByPair(ctx, requesterID, req.RecipientID); err == nil {
		return nil, ErrConnectionExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conn := &model.ConnectionRequest{
		RequesterID: requesterID,
		RecipientID: req.RecipientID,
		Status:      model.ConnectionPending,
	}
	conn.CreatedBy = &requesterID
	if req.Message != "" {
		conn.Message = &req.Message
	}

	if err := s.repo.Connection.Create(ctx, conn); err != nil {
		return nil, err
	}

	if err := s.notification.Dispatch(ctx, req.RecipientID,
		model.NotificationConnectionRequest,
		"新的人脉请求",
		requester.Name+" 希望与您建立联系",
		map[string]string{
			"request_id":   conn.RequestID,
			"requester_id": requesterID,
		},
		"/connections/requests",
	); err != nil {
		s.logger.Warn("人脉请求通知落库失败", zap.Error(err))
	}

	conn.Requester = requester
	return toConnectionResponse(conn), nil
}

// Respond 处理人脉请求（接受/拒绝），仅接收方可操作，处理后通知发起方
// 他人的请求与不存在的请求返回同一错误
func (s *ConnectionService) Respond(ctx context.Context, recipientID, requestID string, req *dto.RespondConnectionRequest) (*dto.ConnectionResponse, error) {
	conn, err := s.repo.Connection.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConnectionNotFound
		}
		return nil, err
	}
	if conn.RecipientID != recipientID {
		return nil, ErrConnectionNotFound
	}
	if conn.Status != model.ConnectionPending {
		return nil, ErrConnectionDecided
	}

	conn.Status = req.Status
	conn.UpdatedBy = &recipientID
	if err := s.repo.Connection.Update(ctx, conn); err != nil {
		return nil, err
	}

	if req.Status == model.ConnectionAccepted {
		recipientName := ""
		if conn.Recipient != nil {
			recipientName = conn.Recipient.Name
		}
		if err := s.notification.Dispatch(ctx, conn.RequesterID,
			model.NotificationConnectionRequest,
			"人脉请求已接受",
			recipientName+" 接受了您的人脉请求",
			map[string]string{"request_id": conn.RequestID},
			"/connections",
		); err != nil {
			s.logger.Warn("人脉结果通知落库失败", zap.Error(err))
		}
	}

	return toConnectionResponse(conn), nil
}

// ListPending 查询待本人处理的人脉请求
func (s *ConnectionService) ListPending(ctx context.Context, recipientID string, page *dto.PaginationRequest) ([]dto.ConnectionResponse, int64, error) {
	conns, total, err := s.repo.Connection.ListPendingForRecipient(ctx, recipientID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return toConnectionList(conns), total, nil
}

// ListConnections 查询本人已建立的人脉
func (s *ConnectionService) ListConnections(ctx context.Context, userID string, page *dto.PaginationRequest) ([]dto.ConnectionResponse, int64, error) {
	conns, total, err := s.repo.Connection.ListAcceptedForUser(ctx, userID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}
	return toConnectionList(conns), total, nil
}

func toConnectionResponse(c *model.ConnectionRequest) *dto.ConnectionResponse {
	return &dto.ConnectionResponse{
		ID:        c.RequestID,
		Requester: toUserBrief(c.Requester),
		Recipient: toUserBrief(c.Recipient),
		Message:   c.Message,
		Status:    c.Status,
		CreatedAt: formatTime(c.CreatedAt),
	}
}

func toConnectionList(conns []model.ConnectionRequest) []dto.ConnectionResponse {
	out := make([]dto.ConnectionResponse, 0, len(conns))
	for i := range conns {
		out = append(out, *toConnectionResponse(&conns[i]))
	}
	return out
}
