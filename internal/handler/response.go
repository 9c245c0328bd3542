package handler

import (
	"Nebula_Vlog/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 定义了标准的API错误响应结构
type ErrorResponse struct {
	Error string `json:"error"`
}

// sendErrorResponse 是一个辅助函数，用于发送标准格式的错误响应
func sendErrorResponse(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, ErrorResponse{Error: message})
}

// currentUserID 必须登录的路由里取viewer，中间件已保证存在
func currentUserID(c *gin.Context) (uint64, bool) {
	v, exists := c.Get(middleware.CtxUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

// optionalUserID 匿名可用的路由里取viewer，没登录返回nil
func optionalUserID(c *gin.Context) *uint64 {
	if id, ok := currentUserID(c); ok {
		return &id
	}
	return nil
}
