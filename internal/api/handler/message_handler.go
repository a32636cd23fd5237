package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

// MessageHandler 私信接口
type MessageHandler struct {
	svc    *service.MessageService
	logger *zap.Logger
}

// Send POST /api/v1/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	msg, err := h.svc.Send(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, msg)
}

// ListConversations GET /api/v1/messages/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	convs, err := h.svc.ListConversations(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, convs)
}

// Conversation GET /api/v1/messages/conversations/:peer_id
func (h *MessageHandler) Conversation(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	msgs, total, err := h.svc.Conversation(c.Request.Context(), currentUserID(c), c.Param("peer_id"), &page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OKPage(c, msgs, total, page.GetPage(), page.GetPageSize())
}

// MarkConversationRead PUT /api/v1/messages/conversations/:peer_id/read
func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	count, err := h.svc.MarkConversationRead(c.Request.Context(), currentUserID(c), c.Param("peer_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"count": count})
}

// UnreadCount GET /api/v1/messages/unread-count
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	count, err := h.svc.UnreadCount(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, dto.UnreadCountResponse{Count: count})
}
