package repository

import (
	"fmt"
	"time"

	"github.com/user/streamhub/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB 初始化数据库连接
func InitDB(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// AutoMigrate 同步表结构
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Genre{},
		&model.Content{},
		&model.Episode{},
		&model.User{},
		&model.ViewingHabit{},
		&model.Log{},
	)
}

// Repositories 仓库集合
type Repositories struct {
	DB      *gorm.DB
	User    *UserRepository
	Content *ContentRepository
	Genre   *GenreRepository
	Episode *EpisodeRepository
	Habit   *HabitRepository
	Stats   *StatsRepository
	Log     *LogRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		DB:      db,
		User:    NewUserRepository(db),
		Content: NewContentRepository(db),
		Genre:   NewGenreRepository(db),
		Episode: NewEpisodeRepository(db),
		Habit:   NewHabitRepository(db),
		Stats:   NewStatsRepository(db),
		Log:     NewLogRepository(db),
	}
}
