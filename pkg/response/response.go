package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Message 统一错误响应结构（与前端约定：失败一律返回 {"message": ...}）
type Message struct {
	Message string `json:"message"`
}

// ── 成功响应 ──

// OK 200 成功响应，直接返回业务数据本体
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Teapot 418 缓存失效确认（/courses/refresh 的约定返回码）
func Teapot(c *gin.Context) {
	c.JSON(http.StatusTeapot, Message{Message: "缓存已失效，下次读取时重建"})
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, Message{Message: message})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// Conflict 409
func Conflict(c *gin.Context, message string) {
	Error(c, http.StatusConflict, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "服务器内部错误")
}
