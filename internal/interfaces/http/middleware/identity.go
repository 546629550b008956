package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"fastcrew-api/pkg/errors"
	"fastcrew-api/pkg/logger"
)

const (
	// UserIDHeader 直接指定用户身份的请求头，优先级最高
	UserIDHeader = "X-User-ID"
	// UserIDContextKey Gin Context 中的用户身份键
	UserIDContextKey = "user_id"
)

// Identity 开发期占位身份中间件
//
// 解析顺序：X-User-ID 直接生效；否则 Authorization 必须是
// Bearer 格式并把 token 当作用户 ID；两个头都缺省时回退到
// 配置的默认用户。Authorization 存在但格式非法或 token 为空
// 时拒绝请求。
func Identity(defaultUserID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolveUserID(c, defaultUserID)
		if err != nil {
			c.AbortWithStatusJSON(err.HTTPStatus, gin.H{
				"code":    err.Code,
				"message": err.Message,
			})
			return
		}

		c.Set(UserIDContextKey, userID)
		ctx := logger.WithContext(c.Request.Context(), logger.UserIDKey, userID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func resolveUserID(c *gin.Context, defaultUserID string) (string, *errors.AppError) {
	if userID := strings.TrimSpace(c.GetHeader(UserIDHeader)); userID != "" {
		return userID, nil
	}

	authorization := strings.TrimSpace(c.GetHeader("Authorization"))
	if authorization == "" {
		return defaultUserID, nil
	}

	if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
		return "", errors.New(errors.CodeUnauthorized, "Unauthorized")
	}
	token := strings.TrimSpace(authorization[len("bearer "):])
	if token == "" {
		return "", errors.New(errors.CodeUnauthorized, "Invalid token")
	}
	// 开发期占位：token 直接作为用户 ID，不校验 JWT
	return token, nil
}

// CurrentUserID 读取当前请求的用户身份
func CurrentUserID(c *gin.Context) string {
	return c.GetString(UserIDContextKey)
}
