package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/api/middleware"
	"github.com/jbedje/pme-360-backend-deploy/internal/dto"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/jwt"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

// AuthHandler 认证接口
type AuthHandler struct {
	svc    *service.AuthService
	logger *zap.Logger
}

// Register POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	tokens, err := h.svc.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.Created(c, tokens)
}

// Login POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, tokens)
}

// Refresh POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, tokens)
}

// Logout POST /api/v1/auth/logout
// 请求体里的 refresh_token 可选
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := c.MustGet(middleware.CtxClaims).(*jwt.Claims)
	if !ok {
		response.InternalError(c)
		return
	}

	var req dto.RefreshTokenRequest
	_ = c.ShouldBindJSON(&req) // 允许空请求体

	if err := h.svc.Logout(c.Request.Context(), claims, req.RefreshToken); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"message": "已注销"})
}

// Me GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

// ChangePassword PUT /api/v1/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败: "+err.Error())
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	response.OK(c, gin.H{"message": "密码已更新"})
}
