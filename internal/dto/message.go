package dto

// ── 私信模块 DTO ──

// SendMessageRequest 发送私信请求
type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Content     string `json:"content"      binding:"required,min=1,max=5000"`
}

// MessageResponse 私信响应
type MessageResponse struct {
	ID          string  `json:"id"`
	SenderID    string  `json:"sender_id"`
	RecipientID string  `json:"recipient_id"`
	Content     string  `json:"content"`
	IsRead      bool    `json:"is_read"`
	ReadAt      *string `json:"read_at,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// ConversationResponse 会话列表条目（每个对端一条）
type ConversationResponse struct {
	Peer        UserBrief `json:"peer"`
	LastMessage string    `json:"last_message"`
	LastAt      string    `json:"last_at"`
	UnreadCount int64     `json:"unread_count"`
}
