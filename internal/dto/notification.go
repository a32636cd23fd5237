package dto

import "encoding/json"

// ── 通知模块 DTO ──

// NotificationListRequest 通知列表查询参数
type NotificationListRequest struct {
	PaginationRequest
	Category string `form:"category" binding:"omitempty"`
	IsRead   *bool  `form:"is_read"  binding:"omitempty"`
	Keyword  string `form:"keyword"  binding:"omitempty,max=100"`
}

// NotificationResponse 通知响应（实时推送与 REST 共用的投影）
type NotificationResponse struct {
	ID        string          `json:"id"`
	Category  string          `json:"category"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	ActionURL *string         `json:"action_url,omitempty"`
	IsRead    bool            `json:"is_read"`
	CreatedAt string          `json:"created_at"`
}

// UnreadCountResponse 未读数量响应
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse 全部标记已读响应
type MarkAllReadResponse struct {
	Count int64 `json:"count"`
}
