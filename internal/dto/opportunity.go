package dto

// ── 机会模块 DTO ──

// CreateOpportunityRequest 发布机会请求
type CreateOpportunityRequest struct {
	Title       string  `json:"title"       binding:"required,min=5,max=200"`
	Description string  `json:"description" binding:"required"`
	Type        string  `json:"type"        binding:"required"`
	Budget      *string `json:"budget"      binding:"omitempty,max=100"`
	Deadline    *string `json:"deadline"    binding:"omitempty"` // RFC3339
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Tags        *string `json:"tags"        binding:"omitempty,max=500"`
}

// UpdateOpportunityRequest 更新机会请求
type UpdateOpportunityRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=5,max=200"`
	Description *string `json:"description" binding:"omitempty"`
	Status      *string `json:"status"      binding:"omitempty,oneof=active closed"`
	Budget      *string `json:"budget"      binding:"omitempty,max=100"`
	Deadline    *string `json:"deadline"    binding:"omitempty"`
	Location    *string `json:"location"    binding:"omitempty,max=200"`
	Tags        *string `json:"tags"        binding:"omitempty,max=500"`
}

// OpportunityListRequest 机会列表查询参数
type OpportunityListRequest struct {
	PaginationRequest
	Type    string `form:"type"    binding:"omitempty"`
	Status  string `form:"status"  binding:"omitempty,oneof=active closed"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// OpportunityResponse 机会响应
type OpportunityResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        string     `json:"type"`
	Status      string     `json:"status"`
	Budget      *string    `json:"budget,omitempty"`
	Deadline    *string    `json:"deadline,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
	Author      *UserBrief `json:"author,omitempty"`
	CreatedAt   string     `json:"created_at"`
}

// ── 申请 DTO ──

// ApplyRequest 申请机会请求
type ApplyRequest struct {
	Message string `json:"message" binding:"omitempty,max=2000"`
}

// UpdateApplicationStatusRequest 更新申请状态请求
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=accepted rejected"`
}

// ApplicationResponse 申请响应
type ApplicationResponse struct {
	ID            string     `json:"id"`
	OpportunityID string     `json:"opportunity_id"`
	Opportunity   string     `json:"opportunity_title,omitempty"`
	Applicant     *UserBrief `json:"applicant,omitempty"`
	Message       *string    `json:"message,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     string     `json:"created_at"`
}
