package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

// EventHandler 活动与报名接口
type EventHandler struct {
	svc    *service.EventService
	logger *zap.Logger
}

// Create POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	event, err := h.svc.Create(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, event)
}

// List GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var req dto.EventListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	events, total, err := h.svc.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, events, total, req.GetPage(), req.GetPageSize())
}

// Get GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, event)
}

// Update PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	event, err := h.svc.Update(c.Request.Context(), currentUserID(c), currentRole(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, event)
}

// Delete DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), currentUserID(c), currentRole(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"message": "活动已下架"})
}

// Register POST /api/v1/events/:id/registrations
func (h *EventHandler) Register(c *gin.Context) {
	reg, err := h.svc.Register(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, reg)
}

// CancelRegistration DELETE /api/v1/events/:id/registrations
func (h *EventHandler) CancelRegistration(c *gin.Context) {
	if err := h.svc.CancelRegistration(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"message": "报名已取消"})
}

// ListMyRegistrations GET /api/v1/registrations
func (h *EventHandler) ListMyRegistrations(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	regs, total, err := h.svc.ListMyRegistrations(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, regs, total, page.GetPage(), page.GetPageSize())
}

// ExportICS GET /api/v1/events/:id/ics
func (h *EventHandler) ExportICS(c *gin.Context) {
	ics, err := h.svc.ExportICS(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="event.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(ics))
}
