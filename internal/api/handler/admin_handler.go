package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler 管理端接口（仅 admin 角色可达，由路由层限制）
type AdminHandler struct {
	svc    *service.AdminService
	users  *service.UserService
	export *service.ExportService
	logger *zap.Logger
}

// Stats GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"totals": stats, "online": h.svc.Online()})
}

// Broadcast POST /api/v1/admin/broadcast
func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req dto.BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	result, err := h.svc.Broadcast(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, result)
}

// VerifyUser PUT /api/v1/admin/users/:id/verify
func (h *AdminHandler) VerifyUser(c *gin.Context) {
	user, err := h.users.Verify(c.Request.Context(), c.Param("id"), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

// UpdateUser PUT /api/v1/admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	user, err := h.users.Update(c.Request.Context(), c.Param("id"), currentUserID(c), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

// DeleteUser DELETE /api/v1/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id"), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"message": "用户已删除"})
}

// ExportUsers GET /api/v1/admin/exports/users
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	f, err := h.export.ExportUsers(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="users.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("导出文件写出失败", zap.Error(err))
	}
	c.Status(http.StatusOK)
}

// ExportOpportunities GET /api/v1/admin/exports/opportunities
func (h *AdminHandler) ExportOpportunities(c *gin.Context) {
	f, err := h.export.ExportOpportunities(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="opportunities.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("导出文件写出失败", zap.Error(err))
	}
	c.Status(http.StatusOK)
}

// ExportApplications GET /api/v1/admin/exports/opportunities/:id/applications
func (h *AdminHandler) ExportApplications(c *gin.Context) {
	f, err := h.export.ExportApplications(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	defer f.Close()

	c.Header("Content-Disposition", `attachment; filename="applications.xlsx"`)
	c.Header("Content-Type", xlsxContentType)
	if err := f.Write(c.Writer); err != nil {
		h.logger.Error("导出文件写出失败", zap.Error(err))
	}
	c.Status(http.StatusOK)
}
