package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

// OpportunityHandler 商业机会与申请接口
type OpportunityHandler struct {
	svc    *service.OpportunityService
	logger *zap.Logger
}

// Create POST /api/v1/opportunities
func (h *OpportunityHandler) Create(c *gin.Context) {
	var req dto.CreateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	opp, err := h.svc.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, opp)
}

// List GET /api/v1/opportunities
func (h *OpportunityHandler) List(c *gin.Context) {
	var req dto.OpportunityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	opps, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, opps, total, req.GetPage(), req.GetPageSize())
}

// Get GET /api/v1/opportunities/:id
func (h *OpportunityHandler) Get(c *gin.Context) {
	opp, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, opp)
}

// Update PUT /api/v1/opportunities/:id
func (h *OpportunityHandler) Update(c *gin.Context) {
	var req dto.UpdateOpportunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	opp, err := h.svc.Update(c.Request.Context(), currentUserID(c), currentRole(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, opp)
}

// Delete DELETE /api/v1/opportunities/:id
func (h *OpportunityHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUserID(c), currentRole(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"message": "机会已下架"})
}

// Apply POST /api/v1/opportunities/:id/applications
func (h *OpportunityHandler) Apply(c *gin.Context) {
	var req dto.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	app, err := h.svc.Apply(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, app)
}

// ListApplicants GET /api/v1/opportunities/:id/applications
func (h *OpportunityHandler) ListApplicants(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	apps, total, err := h.svc.ListApplicants(c.Request.Context(), currentUserID(c), currentRole(c), c.Param("id"), &page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, apps, total, page.GetPage(), page.GetPageSize())
}

// ListMyApplications GET /api/v1/applications
func (h *OpportunityHandler) ListMyApplications(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	apps, total, err := h.svc.ListMyApplications(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, apps, total, page.GetPage(), page.GetPageSize())
}

// UpdateApplicationStatus PUT /api/v1/applications/:id/status
func (h *OpportunityHandler) UpdateApplicationStatus(c *gin.Context) {
	var req dto.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	app, err := h.svc.UpdateApplicationStatus(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, app)
}
