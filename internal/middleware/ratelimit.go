package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/user/streamhub/internal/utils"
	"golang.org/x/time/rate"
)

// RateLimit 按 IP 限流，perMinute 为每分钟允许的请求数，<= 0 时不限流
func RateLimit(perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	// 只保留最近活跃的 IP
	limiters, _ := lru.New[string, *rate.Limiter](10000)
	every := rate.Every(time.Minute / time.Duration(perMinute))

	return func(c *gin.Context) {
		ip := c.ClientIP()
		limiter, ok := limiters.Get(ip)
		if !ok {
			limiter = rate.NewLimiter(every, perMinute)
			limiters.Add(ip, limiter)
		}

		if !limiter.Allow() {
			utils.Error(c, http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
