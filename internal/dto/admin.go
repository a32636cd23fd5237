package dto

// ── 管理模块 DTO ──

// PlatformStatsResponse 平台统计响应
type PlatformStatsResponse struct {
	Users         int64 `json:"users"`
	Opportunities int64 `json:"opportunities"`
	Applications  int64 `json:"applications"`
	Events        int64 `json:"events"`
	Resources     int64 `json:"resources"`
	Messages      int64 `json:"messages"`
	Notifications int64 `json:"notifications"`
}

// BroadcastRequest 系统广播请求
type BroadcastRequest struct {
	Title string `json:"title" binding:"required,min=2,max=200"`
	Body  string `json:"body"  binding:"required,min=2,max=2000"`
}

// BroadcastResponse 系统广播响应
type BroadcastResponse struct {
	Persisted int64 `json:"persisted"` // 落库通知条数
	Delivered int   `json:"delivered"` // 实时推送成功条数
}
