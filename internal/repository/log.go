package repository

import (
	"context"
	"time"

	"github.com/user/streamhub/internal/model"
	"gorm.io/gorm"
)

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Write 写入一条日志
func (r *LogRepository) Write(ctx context.Context, entry *model.Log) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

// List 分页获取日志，level 为空时不过滤
func (r *LogRepository) List(ctx context.Context, level string, limit, offset int) ([]*model.Log, int64, error) {
	var logs []*model.Log
	var total int64
	scope := func(db *gorm.DB) *gorm.DB {
		if level != "" {
			db = db.Where("level = ?", level)
		}
		return db
	}
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Log{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := db.Scopes(scope).Order("timestamp DESC, id DESC").Limit(limit).Offset(offset).Find(&logs).Error
	return logs, total, err
}

// DeleteOlderThan 清理超过指定天数的日志
func (r *LogRepository) DeleteOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	result := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&model.Log{})
	return result.RowsAffected, result.Error
}
