package dto

// ── 活动模块 DTO ──

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	Title       string  `json:"title"       binding:"required,min=5,max=200"`
	Description string  `json:"description" binding:"required"`
	Type        string  `json:"type"        binding:"required"`
	StartsAt    string  `json:"starts_at"   binding:"required"` // RFC3339
	EndsAt      string  `json:"ends_at"     binding:"required"` // RFC3339
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	IsOnline    bool    `json:"is_online"`
	Capacity    int     `json:"capacity"    binding:"omitempty,min=0"`
}

// UpdateEventRequest 更新活动请求
type UpdateEventRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=5,max=200"`
	Description *string `json:"description" binding:"omitempty"`
	Status      *string `json:"status"      binding:"omitempty,oneof=scheduled cancelled"`
	StartsAt    *string `json:"starts_at"   binding:"omitempty"`
	EndsAt      *string `json:"ends_at"     binding:"omitempty"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Capacity    *int    `json:"capacity"    binding:"omitempty,min=0"`
}

// EventListRequest 活动列表查询参数
type EventListRequest struct {
	PaginationRequest
	Type         string `form:"type"          binding:"omitempty"`
	UpcomingOnly bool   `form:"upcoming_only"`
	Keyword      string `form:"keyword"       binding:"omitempty,max=100"`
}

// EventResponse 活动响应
type EventResponse struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Type            string     `json:"type"`
	Status          string     `json:"status"`
	StartsAt        string     `json:"starts_at"`
	EndsAt          string     `json:"ends_at"`
	Location        *string    `json:"location,omitempty"`
	IsOnline        bool       `json:"is_online"`
	Capacity        int        `json:"capacity"`
	RegisteredCount int64      `json:"registered_count"`
	Organizer       *UserBrief `json:"organizer,omitempty"`
	CreatedAt       string     `json:"created_at"`
}

// RegistrationResponse 报名响应
type RegistrationResponse struct {
	ID       string     `json:"id"`
	EventID  string     `json:"event_id"`
	Event    string     `json:"event_title,omitempty"`
	Attendee *UserBrief `json:"attendee,omitempty"`
	Status   string     `json:"status"`
}
