package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jbedje/pme-360-backend-deploy/pkg/jwt"
	"github.com/jbedje/pme-360-backend-deploy/pkg/redis"
	"github.com/jbedje/pme-360-backend-deploy/pkg/response"
)

// 上下文键
const (
	CtxUserID = "user_id"
	CtxRole   = "user_role"
	CtxClaims = "claims"
)

// JWTAuth 访问令牌鉴权
// 校验 Bearer 令牌：签名、类型、黑名单，通过后把身份写入上下文
func JWTAuth(jwtManager *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			response.Unauthorized(c, 10002, "缺少访问令牌")
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil || claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "访问令牌无效或已过期")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				response.InternalError(c)
				c.Abort()
				return
			}
			if blacklisted {
				response.Unauthorized(c, 10002, "访问令牌已注销")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// RoleAuth 角色鉴权，须在 JWTAuth 之后使用
func RoleAuth(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxRole)
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, 10003, "无权访问该资源")
			c.Abort()
			return
		}
		c.Next()
	}
}
