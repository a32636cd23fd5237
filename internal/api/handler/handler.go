package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/internal/api/middleware"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Opportunity  *OpportunityHandler
	Event        *EventHandler
	Resource     *ResourceHandler
	Message      *MessageHandler
	Connection   *ConnectionHandler
	Notification *NotificationHandler
	Admin        *AdminHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Auth:         &AuthHandler{svc: svc.Auth, logger: logger},
		User:         &UserHandler{svc: svc.User, logger: logger},
		Opportunity:  &OpportunityHandler{svc: svc.Opportunity, logger: logger},
		Event:        &EventHandler{svc: svc.Event, logger: logger},
		Resource:     &ResourceHandler{svc: svc.Resource, logger: logger},
		Message:      &MessageHandler{svc: svc.Message, logger: logger},
		Connection:   &ConnectionHandler{svc: svc.Connection, logger: logger},
		Notification: &NotificationHandler{svc: svc.Notification, logger: logger},
		Admin:        &AdminHandler{svc: svc.Admin, users: svc.User, export: svc.Export, logger: logger},
	}
}

// 业务错误 → 错误码映射
var errorCodes = []struct {
	err        error
	httpStatus int
	code       int
}{
	{service.ErrEmailExists, 409, 11001},
	{service.ErrInvalidCredentials, 401, 11002},
	{service.ErrRefreshInvalid, 401, 11003},
	{service.ErrPasswordMismatch, 400, 11004},
	{service.ErrInvalidProfileType, 400, 11005},
	{service.ErrUserNotFound, 404, 20001},
	{service.ErrOpportunityNotFound, 404, 21001},
	{service.ErrOpportunityClosed, 409, 21002},
	{service.ErrInvalidOppType, 400, 21003},
	{service.ErrInvalidDeadline, 400, 21004},
	{service.ErrOwnOpportunity, 409, 21005},
	{service.ErrAlreadyApplied, 409, 21006},
	{service.ErrApplicationNotFound, 404, 22001},
	{service.ErrApplicationDecided, 409, 22002},
	{service.ErrEventNotFound, 404, 23001},
	{service.ErrEventCancelled, 409, 23002},
	{service.ErrEventStarted, 409, 23003},
	{service.ErrEventFull, 409, 23004},
	{service.ErrInvalidEventType, 400, 23005},
	{service.ErrInvalidEventTime, 400, 23006},
	{service.ErrAlreadyRegistered, 409, 23007},
	{service.ErrRegistrationNotFound, 404, 23008},
	{service.ErrResourceNotFound, 404, 24001},
	{service.ErrInvalidResourceType, 400, 24002},
	{service.ErrRecipientNotFound, 404, 25001},
	{service.ErrSelfMessage, 400, 25002},
	{service.ErrConnectionExists, 409, 26001},
	{service.ErrConnectionNotFound, 404, 26002},
	{service.ErrSelfConnection, 400, 26003},
	{service.ErrConnectionDecided, 409, 26004},
	{service.ErrNotificationNotFound, 404, 27001},
	{service.ErrInvalidCategory, 400, 27002},
}

// respondError 业务错误统一出口，未登记的错误按 500 处理
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			response.Error(c, entry.httpStatus, entry.code, entry.err.Error())
			return
		}
	}

	logger.Error("未预期的业务错误",
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", c.GetString(middleware.CtxRequestID)),
		zap.Error(err))
	response.InternalError(c)
}

// currentUserID 取 JWTAuth 写入的用户 ID
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.CtxUserID)
}

// currentRole 取 JWTAuth 写入的角色
func currentRole(c *gin.Context) string {
	return c.GetString(middleware.CtxRole)
}
