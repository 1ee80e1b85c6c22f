package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/dto"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/authclient"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/response"
)

const userKey = "user"

// Auth 认证中间件
// 将 Authorization 头交给外部认证服务换取用户身份并注入上下文；
// 校验结果由 authclient 短暂缓存，突发请求不会逐一回源
func Auth(client *authclient.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "缺少认证信息")
			c.Abort()
			return
		}

		info, err := client.Verify(c.Request.Context(), authHeader)
		if err != nil {
			if errors.Is(err, authclient.ErrUnauthorized) {
				response.Unauthorized(c, "认证失败")
			} else {
				response.Error(c, 500, "内部错误：无法校验认证信息")
			}
			c.Abort()
			return
		}

		c.Set(userKey, *info)
		c.Next()
	}
}

// CurrentUser 取出上下文中的用户身份
func CurrentUser(c *gin.Context) (dto.UserInfo, bool) {
	v, exists := c.Get(userKey)
	if !exists {
		return dto.UserInfo{}, false
	}
	info, ok := v.(dto.UserInfo)
	return info, ok
}

// AdminOnly 管理员权限中间件
// 权限不足按约定以 401 返回（Forbidden 折叠进 Unauthorized）
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		info, ok := CurrentUser(c)
		if !ok {
			response.Unauthorized(c, "未认证")
			c.Abort()
			return
		}
		if !info.IsAdmin {
			response.Unauthorized(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}
