package model

import "time"

// 日志级别
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log 写入数据库的运行日志
type Log struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Timestamp time.Time      `json:"timestamp" gorm:"index"`
	Level     string         `json:"level" gorm:"index"`
	Message   string         `json:"message"`
	Source    string         `json:"source"`
	Metadata  map[string]any `json:"metadata,omitempty" gorm:"serializer:json;type:text"`
}
