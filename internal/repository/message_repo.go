package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/jbedje/pme-360-backend-deploy/internal/model"
)

// ConversationSummary 会话列表条目（每个对端一条）
type ConversationSummary struct {
	PeerID      string
	LastMessage string
	LastAt      time.Time
	UnreadCount int64
}

// MessageRepository 私信数据访问接口
type MessageRepository interface {
	Create(ctx context.Context, msg *model.Message) error
	// Conversation 双向查询两个用户之间的消息（新→旧）
	Conversation(ctx context.Context, userID, peerID string, offset, limit int) ([]model.Message, int64, error)
	// MarkConversationRead 将 peer 发给 user 的未读消息全部置为已读
	MarkConversationRead(ctx context.Context, userID, peerID string) (int64, error)
	ListConversations(ctx context.Context, userID string) ([]ConversationSummary, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepo 创建 MessageRepository 实例
func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) Create(ctx context.Context, msg *model.Message) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *messageRepo) Conversation(ctx context.Context, userID, peerID string, offset, limit int) ([]model.Message, int64, error) {
	var msgs []model.Message
	var total int64

	db := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, peerID, peerID, userID)

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&msgs).Error; err != nil {
		return nil, 0, err
	}

	return msgs, total, nil
}

func (r *messageRepo) MarkConversationRead(ctx context.Context, userID, peerID string) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("recipient_id = ? AND sender_id = ? AND is_read = ?", userID, peerID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": now})
	return result.RowsAffected, result.Error
}

func (r *messageRepo) ListConversations(ctx context.Context, userID string) ([]ConversationSummary, error) {
	// DISTINCT ON 取每个对端最新一条消息（PostgreSQL 专用语法）
	var rows []struct {
		PeerID      string
		LastMessage string
		LastAt      time.Time
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (peer_id) peer_id, content AS last_message, created_at AS last_at
		FROM (
			SELECT CASE WHEN sender_id = @uid THEN recipient_id ELSE sender_id END AS peer_id,
			       content, created_at
			FROM messages
			WHERE sender_id = @uid OR recipient_id = @uid
		) m
		ORDER BY peer_id, last_at DESC`,
		map[string]interface{}{"uid": userID},
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(rows))
	for _, row := range rows {
		var unread int64
		if err := r.db.WithContext(ctx).
			Model(&model.Message{}).
			Where("recipient_id = ? AND sender_id = ? AND is_read = ?", userID, row.PeerID, false).
			Count(&unread).Error; err != nil {
			return nil, err
		}
		summaries = append(summaries, ConversationSummary{
			PeerID:      row.PeerID,
			LastMessage: row.LastMessage,
			LastAt:      row.LastAt,
			UnreadCount: unread,
		})
	}

	return summaries, nil
}

func (r *messageRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Message{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *messageRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Message{}).Count(&count).Error
	return count, err
}
