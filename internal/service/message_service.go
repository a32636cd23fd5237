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
	ErrRecipientNotFound = errors.New("收件人不存在")
	ErrSelfMessage       = errors.New("不能给自己发私信")
)

// MessageService 私信业务逻辑
type MessageService struct {
	repo         *repository.Repository
	notification *NotificationService
	logger       *zap.Logger
}

// NewMessageService 创建 MessageService 实例
func NewMessageService(repo *repository.Repository, notification *NotificationService, logger *zap.Logger) *MessageService {
	return &MessageService{repo: repo, notification: notification, logger: logger}
}

// Send 发送私信，成功后通知收件人
func (s *MessageService) Send(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*dto.MessageResponse, error) {
	if senderID == req.RecipientID {
		return nil, ErrSelfMessage
	}

	sender, err := s.repo.User.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.User.GetByID(ctx, req.RecipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	msg := &model.Message{
		SenderID:    senderID,
		RecipientID: req.RecipientID,
		Content:     req.Content,
	}
	msg.CreatedBy = &senderID

	if err := s.repo.Message.Create(ctx, msg); err != nil {
		return nil, err
	}

	if err := s.notification.Dispatch(ctx, req.RecipientID,
		model.NotificationDirectMessage,
		"收到新私信",
		sender.Name+" 给您发来一条私信",
		map[string]string{
			"message_id": msg.MessageID,
			"sender_id":  senderID,
		},
		"/messages/"+senderID,
	); err != nil {
		s.logger.Warn("私信通知落库失败", zap.Error(err))
	}

	return toMessageResponse(msg), nil
}

// Conversation 查询与某用户的会话记录（新→旧）
// 打开会话即视为阅读，对方发来的未读私信先置为已读
func (s *MessageService) Conversation(ctx context.Context, userID, peerID string, page *dto.PaginationRequest) ([]dto.MessageResponse, int64, error) {
	if _, err := s.repo.Message.MarkConversationRead(ctx, userID, peerID); err != nil {
		s.logger.Warn("会话置已读失败", zap.Error(err))
	}

	msgs, total, err := s.repo.Message.Conversation(ctx, userID, peerID, page.GetOffset(), page.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		out = append(out, *toMessageResponse(&msgs[i]))
	}
	return out, total, nil
}

// MarkConversationRead 将对方发来的未读私信全部置为已读，返回更新条数
func (s *MessageService) MarkConversationRead(ctx context.Context, userID, peerID string) (int64, error) {
	return s.repo.Message.MarkConversationRead(ctx, userID, peerID)
}

// ListConversations 会话列表（每个对端一条，按最新消息排序）
// 对端已注销时跳过该会话
func (s *MessageService) ListConversations(ctx context.Context, userID string) ([]dto.ConversationResponse, error) {
	summaries, err := s.repo.Message.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConversationResponse, 0, len(summaries))
	for _, sum := range summaries {
		peer, err := s.repo.User.GetByID(ctx, sum.PeerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}
		out = append(out, dto.ConversationResponse{
			Peer:        *toUserBrief(peer),
			LastMessage: sum.LastMessage,
			LastAt:      formatTime(sum.LastAt),
			UnreadCount: sum.UnreadCount,
		})
	}
	return out, nil
}

// UnreadCount 未读私信总数
func (s *MessageService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.Message.CountUnread(ctx, userID)
}

func toMessageResponse(m *model.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:          m.MessageID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		IsRead:      m.IsRead,
		ReadAt:      formatTimePtr(m.ReadAt),
		CreatedAt:   formatTime(m.CreatedAt),
	}
}
