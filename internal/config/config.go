package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultSecret = "your-secret-key-change-in-production"

// Config 应用配置
type Config struct {
	Env         string
	AppSecret   string
	DatabaseURL string
	JWTExpiry   time.Duration
	Port        string

	// 外部评分查询（OMDb 兼容接口）
	RatingAPIURL     string
	RatingAPIKey     string
	RatingAPITimeout time.Duration

	// 日志
	LogLevel         string
	LogFile          string
	LogToDB          bool
	LogRetentionDays int

	// 登录/注册限流（每分钟每 IP 请求数）
	AuthRateLimit int
}

// Load 加载配置
func Load() *Config {
	expiryHours := getEnvInt("JWT_EXPIRY_HOURS", 72)
	timeoutMs := getEnvInt("RATING_API_TIMEOUT_MS", 5000)

	dbUser := getEnv("DB_USER", "postgres")
	dbPass := getEnv("DB_PASSWORD", "postgres")
	dbHost := getEnv("DB_HOST", "localhost")
	dbPort := getEnv("DB_PORT", "5432")
	dbName := getEnv("DB_NAME", "streamhub")
	dbSSL := getEnv("DB_SSLMODE", "disable")

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbUser, dbPass, dbHost, dbPort, dbName, dbSSL)

	appSecret := getEnv("APP_SECRET", getEnv("JWT_SECRET", defaultSecret))
	env := getEnv("APP_ENV", "development")

	if env == "production" && appSecret == defaultSecret {
		log.Warn().Msg("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	return &Config{
		Env:              env,
		AppSecret:        appSecret,
		DatabaseURL:      dbURL,
		JWTExpiry:        time.Duration(expiryHours) * time.Hour,
		Port:             getEnv("PORT", "5005"),
		RatingAPIURL:     getEnv("RATING_API_URL", "https://www.omdbapi.com/"),
		RatingAPIKey:     getEnv("RATING_API_KEY", ""),
		RatingAPITimeout: time.Duration(timeoutMs) * time.Millisecond,
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		LogToDB:          getEnvBool("LOG_TO_DB", true),
		LogRetentionDays: getEnvInt("LOG_RETENTION_DAYS", 30),
		AuthRateLimit:    getEnvInt("AUTH_RATE_LIMIT", 20),
	}
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return b
}
