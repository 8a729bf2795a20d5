package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HashIP 对 IP 地址进行哈希处理（用于匿名统计）
func HashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 只取前8字节，足够用于统计
}

// Response 统一API响应结构
type Response struct {
	Success    bool        `json:"success"`              // 是否成功
	Data       interface{} `json:"data,omitempty"`       // 数据
	Error      string      `json:"error,omitempty"`      // 错误信息
	Count      *int        `json:"count,omitempty"`      // 当前页数量
	Total      *int64      `json:"total,omitempty"`      // 总数
	Pagination *Pagination `json:"pagination,omitempty"` // 分页信息
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// Created 返回 201 响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// List 返回带数量的列表响应
func List[T any](c *gin.Context, items []T) {
	count := len(items)
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    items,
		Count:   &count,
	})
}

// Paginated 返回分页列表响应
func Paginated[T any](c *gin.Context, items []T, total int64, p PageParams) {
	count := len(items)
	pagination := NewPagination(p, total)
	c.JSON(http.StatusOK, Response{
		Success:    true,
		Data:       items,
		Count:      &count,
		Total:      &total,
		Pagination: &pagination,
	})
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Success: false,
		Error:   message,
	})
}

// Fail 根据错误类型返回对应状态码，并挂到上下文供日志中间件记录
func Fail(c *gin.Context, err error) {
	_ = c.Error(err)
	Error(c, StatusOf(err), MessageOf(err))
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 返回401错误
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未登录"
	}
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 返回403错误
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "没有权限"
	}
	Error(c, http.StatusForbidden, message)
}

// InternalServerError 返回500错误
func InternalServerError(c *gin.Context, message string) {
	if message == "" {
		message = "服务器内部错误"
	}
	Error(c, http.StatusInternalServerError, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	Error(c, http.StatusNotFound, message)
}
