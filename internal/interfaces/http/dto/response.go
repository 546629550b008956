// Package dto 定义 HTTP 接口的请求与响应结构
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fastcrew-api/pkg/errors"
	"fastcrew-api/pkg/tracer"
)

// Response 统一响应包装
type Response struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
	Data    any              `json:"data,omitempty"`
	TraceID string           `json:"trace_id,omitempty"`
}

// Success 返回成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    errors.CodeSuccess,
		Message: "success",
		Data:    data,
		TraceID: tracer.TraceID(c.Request.Context()),
	})
}

// Error 返回错误响应，非 AppError 一律按内部错误处理
func Error(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	c.JSON(appErr.HTTPStatus, Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		TraceID: tracer.TraceID(c.Request.Context()),
	})
}

// ErrorWith 以给定错误码与消息返回错误响应
func ErrorWith(c *gin.Context, code errors.ErrorCode, message string) {
	Error(c, errors.New(code, message))
}
