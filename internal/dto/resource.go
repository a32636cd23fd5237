package dto

// ── 资源模块 DTO ──

// CreateResourceRequest 发布资源请求
type CreateResourceRequest struct {
	Title       string  `json:"title"       binding:"required,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	Type        string  `json:"type"        binding:"required"`
	URL         string  `json:"url"         binding:"required,url,max=500"`
	Tags        *string `json:"tags"        binding:"omitempty,max=500"`
}

// UpdateResourceRequest 更新资源请求
type UpdateResourceRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=3,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	URL         *string `json:"url"         binding:"omitempty,url,max=500"`
	Tags        *string `json:"tags"        binding:"omitempty,max=500"`
}

// ResourceListRequest 资源列表查询参数
type ResourceListRequest struct {
	PaginationRequest
	Type    string `form:"type"    binding:"omitempty"`
	Keyword string `form:"keyword" binding:"omitempty,max=100"`
}

// ResourceResponse 资源响应
type ResourceResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description,omitempty"`
	Type          string     `json:"type"`
	URL           string     `json:"url"`
	Tags          []string   `json:"tags,omitempty"`
	DownloadCount int64      `json:"download_count"`
	Author        *UserBrief `json:"author,omitempty"`
	CreatedAt     string     `json:"created_at"`
}
