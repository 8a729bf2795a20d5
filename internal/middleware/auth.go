package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/utils"
)

// SessionUserKey Session 中保存用户信息的键
const SessionUserKey = "userinfo"

// Claims JWT 声明
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RequireAuth 必须登录中间件，支持 Session 和 Bearer Token
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, jwtSecret) {
			utils.Unauthorized(c, "未登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuth 可选登录中间件（不强制要求登录）
func OptionalAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, jwtSecret)
		c.Next()
	}
}

// RequireAdmin 管理员权限中间件，需放在 RequireAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != model.RoleAdmin {
			utils.Forbidden(c, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// authenticate 依次尝试 Session 和 JWT，成功时写入上下文
func authenticate(c *gin.Context, jwtSecret string) bool {
	if _, ok := c.Get("user_id"); ok {
		return true
	}

	if user, ok := sessionUser(c); ok {
		setUser(c, user.ID, user.Email, user.Role)
		return true
	}

	claims, err := extractClaims(c, jwtSecret)
	if err != nil {
		return false
	}
	setUser(c, claims.UserID, claims.Email, claims.Role)

	// 滑动续期逻辑：如果 Token 过期时间消耗超过一半，则刷新
	if shouldRefresh(claims) {
		expiry := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
		if newToken, err := GenerateToken(claims.UserID, claims.Email, claims.Role, jwtSecret, expiry); err == nil {
			c.Header("X-Refresh-Token", newToken)
		}
	}
	return true
}

func setUser(c *gin.Context, id uint, email, role string) {
	c.Set("user_id", id)
	c.Set("email", email)
	c.Set("role", role)
}

func sessionUser(c *gin.Context) (model.SessionUser, bool) {
	if _, exists := c.Get(sessions.DefaultKey); !exists {
		return model.SessionUser{}, false
	}
	user, ok := sessions.Default(c).Get(SessionUserKey).(model.SessionUser)
	if !ok || user.ID == 0 {
		return model.SessionUser{}, false
	}
	return user, true
}

// extractClaims 从 Authorization Header 或 Cookie 中提取 JWT Claims
func extractClaims(c *gin.Context, jwtSecret string) (*Claims, error) {
	var tokenString string

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString = strings.TrimPrefix(authHeader, "Bearer ")
	} else if cookie, err := c.Cookie("token"); err == nil {
		tokenString = cookie
	}

	if tokenString == "" {
		return nil, jwt.ErrTokenMalformed
	}

	// 解析 Token
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// GetUserID 从上下文获取用户 ID（未登录返回 0）
func GetUserID(c *gin.Context) uint {
	if userID, exists := c.Get("user_id"); exists {
		if id, ok := userID.(uint); ok {
			return id
		}
	}
	return 0
}

// GenerateToken 生成 JWT Token
func GenerateToken(userID uint, email, role, jwtSecret string, expiry time.Duration) (string, error) {
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// shouldRefresh 判断是否需要刷新 Token
// 逻辑：如果已经消耗了总有效期的 50% 以上，则建议刷新
func shouldRefresh(claims *Claims) bool {
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return false
	}

	totalDuration := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	elapsedDuration := time.Since(claims.IssuedAt.Time)

	return elapsedDuration > totalDuration/2
}
