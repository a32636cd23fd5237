package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

// ConnectionHandler 人脉接口
type ConnectionHandler struct {
	svc    *service.ConnectionService
	logger *zap.Logger
}

// Send POST /api/v1/connections/requests
func (h *ConnectionHandler) Send(c *gin.Context) {
	var req dto.SendConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	conn, err := h.svc.Send(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, conn)
}

// Respond PUT /api/v1/connections/requests/:id
func (h *ConnectionHandler) Respond(c *gin.Context) {
	var req dto.RespondConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	conn, err := h.svc.Respond(c.Request.Context(), currentUserID(c), c.Param("id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, conn)
}

// ListPending GET /api/v1/connections/requests
func (h *ConnectionHandler) ListPending(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	conns, total, err := h.svc.ListPending(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, conns, total, page.GetPage(), page.GetPageSize())
}

// List GET /api/v1/connections
func (h *ConnectionHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	conns, total, err := h.svc.ListConnections(c.Request.Context(), currentUserID(c), &page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, conns, total, page.GetPage(), page.GetPageSize())
}
