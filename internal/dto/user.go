package dto

// ── 用户模块 DTO ──

// UserResponse 用户信息响应（脱敏）
type UserResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	ProfileType string  `json:"profile_type"`
	Role        string  `json:"role"`
	IsVerified  bool    `json:"is_verified"`
	Company     *string `json:"company,omitempty"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
	Website     *string `json:"website,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// UserListRequest 用户列表查询参数
type UserListRequest struct {
	PaginationRequest
	ProfileType string `form:"profile_type" binding:"omitempty"`
	Location    string `form:"location"     binding:"omitempty"`
	Keyword     string `form:"keyword"      binding:"omitempty,max=100"`
}

// UpdateUserRequest 更新用户资料请求
type UpdateUserRequest struct {
	Name        *string `json:"name"        binding:"omitempty,min=2,max=100"`
	Company     *string `json:"company"     binding:"omitempty,max=200"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Website     *string `json:"website"     binding:"omitempty,max=255"`
	Phone       *string `json:"phone"       binding:"omitempty,max=30"`
}
