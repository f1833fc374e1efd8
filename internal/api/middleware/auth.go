package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yasir-hameed381/idreesia-backend1-sub000/internal/dto"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/jwt"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/redis"
	"github.com/yasir-hameed381/idreesia-backend1-sub000/pkg/response"
)

// JWTAuth JWT 认证中间件
// 从 Authorization: Bearer <token> 中提取并验证 Access Token，
// 校验黑名单后将 dto.Principal 注入上下文。rdb 为 nil 时跳过黑名单检查
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, "Invalid token type")
			c.Abort()
			return
		}

		if rdb != nil && claims.ID != "" {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis 异常时降级放行
				logger.Warn("检查 Token 黑名单失败", zap.Error(err))
			} else if blacklisted {
				response.Unauthorized(c, "Token has been revoked")
				c.Abort()
				return
			}
		}

		id := claims.Identity
		c.Set("user_id", id.UserID)
		c.Set("token_jti", claims.ID)
		c.Set("principal", &dto.Principal{
			UserID:            id.UserID,
			UserType:          id.UserType,
			ZoneID:            id.ZoneID,
			RegionID:          id.RegionID,
			MehfilDirectoryID: id.MehfilDirectoryID,
			IsSuperAdmin:      id.IsSuperAdmin,
			IsRegionAdmin:     id.IsRegionAdmin,
			IsAllRegionAdmin:  id.IsAllRegionAdmin,
			IsZoneAdmin:       id.IsZoneAdmin,
			IsMehfilAdmin:     id.IsMehfilAdmin,
		})

		c.Next()
	}
}

// RequireAdmin 管理权限中间件
// 持有任一管理标记（super / all-region / region / zone / mehfil）即放行
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("principal")
		if !exists {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		p, _ := v.(*dto.Principal)
		if p == nil {
			response.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if p.IsSuperAdmin || p.IsAllRegionAdmin || p.IsRegionAdmin || p.IsZoneAdmin || p.IsMehfilAdmin {
			c.Next()
			return
		}

		response.Forbidden(c, "You do not have permission to perform this action")
		c.Abort()
	}
}
