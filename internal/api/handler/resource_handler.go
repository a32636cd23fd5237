package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

// ResourceHandler 资源库接口
type ResourceHandler struct {
	svc    *service.ResourceService
	logger *zap.Logger
}

// Create POST /api/v1/resources
func (h *ResourceHandler) Create(c *gin.Context) {
	var req dto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	res, err := h.svc.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, res)
}

// List GET /api/v1/resources
func (h *ResourceHandler) List(c *gin.Context) {
	var req dto.ResourceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	resources, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, resources, total, req.GetPage(), req.GetPageSize())
}

// Get GET /api/v1/resources/:id
func (h *ResourceHandler) Get(c *gin.Context) {
	res, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, res)
}

// Update PUT /api/v1/resources/:id
func (h *ResourceHandler) Update(c *gin.Context) {
	var req dto.UpdateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	res, err := h.svc.Update(c.Request.Context(), currentUserID(c), currentRole(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, res)
}

// Delete DELETE /api/v1/resources/:id
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUserID(c), currentRole(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"message": "资源已下架"})
}

// Download POST /api/v1/resources/:id/download
// 计数并返回资源地址，由客户端跳转
func (h *ResourceHandler) Download(c *gin.Context) {
	url, err := h.svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"url": url})
}
