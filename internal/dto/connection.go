package dto

// ── 人脉模块 DTO ──

// SendConnectionRequest 发起人脉请求
type SendConnectionRequest struct {
	RecipientID string `json:"recipient_id" binding:"required,uuid"`
	Message     string `json:"message"      binding:"omitempty,max=1000"`
}

// RespondConnectionRequest 处理人脉请求
type RespondConnectionRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

// ConnectionResponse 人脉请求响应
type ConnectionResponse struct {
	ID        string     `json:"id"`
	Requester *UserBrief `json:"requester,omitempty"`
	Recipient *UserBrief `json:"recipient,omitempty"`
	Message   *string    `json:"message,omitempty"`
	Status    string     `json:"status"`
	CreatedAt string     `json:"created_at"`
}
