package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/utils"
)

// LogSink 日志落库接口，实现方需保证不阻塞
type LogSink interface {
	Record(entry *model.Log)
}

// Logger 请求日志中间件，sink 为 nil 时只输出到 zerolog
func Logger(sink LogSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		var event *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			event = log.Error()
		case status >= http.StatusBadRequest:
			event = log.Warn()
		default:
			event = log.Info()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Int("status", status).
			Dur("latency", latency).
			Msg("request")

		if sink != nil {
			sink.Record(&model.Log{
				Timestamp: start,
				Level:     levelOf(status),
				Message:   fmt.Sprintf("%s %s %d", c.Request.Method, path, status),
				Source:    "http",
				Metadata: map[string]any{
					"ip":        utils.HashIP(c.ClientIP()),
					"latencyMs": latency.Milliseconds(),
					"userId":    GetUserID(c),
				},
			})
		}
	}
}

// ErrorLogger 记录处理器挂到上下文上的错误
func ErrorLogger(sink LogSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, ginErr := range c.Errors {
			status := utils.StatusOf(ginErr.Err)
			log.Err(ginErr.Err).Int("status", status).Str("path", c.Request.URL.Path).Msg("request error")
			if sink == nil {
				continue
			}
			sink.Record(&model.Log{
				Level:   levelOf(status),
				Message: ginErr.Err.Error(),
				Source:  "handler",
				Metadata: map[string]any{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"status": status,
				},
			})
		}
	}
}

// Recovery 捕获 panic 并返回 500
func Recovery(sink LogSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				stack := string(debug.Stack())
				log.Error().Interface("panic", r).Str("stack", stack).Msg("panic recovered")
				if sink != nil {
					sink.Record(&model.Log{
						Level:    model.LogLevelError,
						Message:  fmt.Sprintf("panic: %v", r),
						Source:   "recovery",
						Metadata: map[string]any{"path": c.Request.URL.Path, "stack": stack},
					})
				}
				utils.InternalServerError(c, "")
				c.Abort()
			}
		}()
		c.Next()
	}
}

func levelOf(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return model.LogLevelError
	case status >= http.StatusBadRequest:
		return model.LogLevelWarning
	default:
		return model.LogLevelInfo
	}
}
