package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/config"
	"github.com/jbedje/pme-360-backend-deploy/internal/api/handler"
	"github.com/jbedje/pme-360-backend-deploy/internal/api/middleware"
	"github.com/jbedje/pme-360-backend-deploy/internal/model"
	"github.com/jbedje/pme-360-backend-deploy/internal/realtime"
	"github.com/jbedje/pme-360-backend-deploy/pkg/jwt"
	"github.com/jbedje/pme-360-backend-deploy/pkg/redis"
)

// 请求体上限 1MB，导出等大响应不受影响
const maxBodyBytes = 1 << 20

// Setup 组装全部路由与中间件
func Setup(cfg *config.Config, h *handler.Handler, gateway *realtime.Gateway, jwtManager *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Server.CORS.AllowOrigins),
		middleware.BodyLimit(maxBodyBytes),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 实时通知通道（网关内部自行鉴权）
	r.GET("/ws/notifications", gateway.Handle)

	auth := middleware.JWTAuth(jwtManager, rdb)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	v1 := r.Group("/api/v1")
	{
		// 认证入口做较严的限流，防撞库
		authGroup := v1.Group("/auth")
		{
			loginLimit := middleware.RateLimit(rdb, logger, 10, time.Minute)
			authGroup.POST("/register", loginLimit, h.Auth.Register)
			authGroup.POST("/login", loginLimit, h.Auth.Login)
			authGroup.POST("/refresh", loginLimit, h.Auth.Refresh)
			authGroup.POST("/logout", auth, h.Auth.Logout)
			authGroup.GET("/me", auth, h.Auth.Me)
			authGroup.PUT("/password", auth, h.Auth.ChangePassword)
		}

		users := v1.Group("/users", auth)
		{
			users.GET("", h.User.List)
			users.PUT("/me", h.User.UpdateMe)
			users.DELETE("/me", h.User.DeleteMe)
			users.GET("/:id", h.User.Get)
		}

		opportunities := v1.Group("/opportunities", auth)
		{
			opportunities.POST("", h.Opportunity.Create)
			opportunities.GET("", h.Opportunity.List)
			opportunities.GET("/:id", h.Opportunity.Get)
			opportunities.PUT("/:id", h.Opportunity.Update)
			opportunities.DELETE("/:id", h.Opportunity.Delete)
			opportunities.POST("/:id/applications", h.Opportunity.Apply)
			opportunities.GET("/:id/applications", h.Opportunity.ListApplicants)
		}

		applications := v1.Group("/applications", auth)
		{
			applications.GET("", h.Opportunity.ListMyApplications)
			applications.PUT("/:id/status", h.Opportunity.UpdateApplicationStatus)
		}

		events := v1.Group("/events", auth)
		{
			events.POST("", h.Event.Create)
			events.GET("", h.Event.List)
			events.GET("/:id", h.Event.Get)
			events.PUT("/:id", h.Event.Update)
			events.DELETE("/:id", h.Event.Delete)
			events.POST("/:id/registrations", h.Event.Register)
			events.DELETE("/:id/registrations", h.Event.CancelRegistration)
			events.GET("/:id/ics", h.Event.ExportICS)
		}
		v1.GET("/registrations", auth, h.Event.ListMyRegistrations)

		resources := v1.Group("/resources", auth)
		{
			resources.POST("", h.Resource.Create)
			resources.GET("", h.Resource.List)
			resources.GET("/:id", h.Resource.Get)
			resources.PUT("/:id", h.Resource.Update)
			resources.DELETE("/:id", h.Resource.Delete)
			resources.POST("/:id/download", h.Resource.Download)
		}

		messages := v1.Group("/messages", auth)
		{
			messages.POST("", h.Message.Send)
			messages.GET("/conversations", h.Message.ListConversations)
			messages.GET("/conversations/:peer_id", h.Message.Conversation)
			messages.PUT("/conversations/:peer_id/read", h.Message.MarkConversationRead)
			messages.GET("/unread-count", h.Message.UnreadCount)
		}

		connections := v1.Group("/connections", auth)
		{
			connections.GET("", h.Connection.List)
			connections.POST("/requests", h.Connection.Send)
			connections.GET("/requests", h.Connection.ListPending)
			connections.PUT("/requests/:id", h.Connection.Respond)
		}

		notifications := v1.Group("/notifications", auth)
		{
			notifications.GET("", h.Notification.List)
			notifications.GET("/unread-count", h.Notification.UnreadCount)
			notifications.PUT("/read-all", h.Notification.MarkAllRead)
			notifications.PUT("/:id/read", h.Notification.MarkRead)
			notifications.DELETE("/:id", h.Notification.Delete)
		}

		admin := v1.Group("/admin", auth, adminOnly)
		{
			admin.GET("/stats", h.Admin.Stats)
			admin.POST("/broadcast", h.Admin.Broadcast)
			admin.PUT("/users/:id", h.Admin.UpdateUser)
			admin.PUT("/users/:id/verify", h.Admin.VerifyUser)
			admin.DELETE("/users/:id", h.Admin.DeleteUser)
			admin.GET("/exports/users", h.Admin.ExportUsers)
			admin.GET("/exports/opportunities", h.Admin.ExportOpportunities)
			admin.GET("/exports/opportunities/:id/applications", h.Admin.ExportApplications)
		}
	}

	return r
}
