package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/streamhub/internal/repository"
)

// CleanupService 清理服务
type CleanupService struct {
	repos         *repository.Repositories
	retentionDays int
	stop          chan struct{}
}

// NewCleanupService 创建清理服务
func NewCleanupService(repos *repository.Repositories, retentionDays int) *CleanupService {
	return &CleanupService{repos: repos, retentionDays: retentionDays, stop: make(chan struct{})}
}

// Start 启动定时清理任务，每天执行一次
func (s *CleanupService) Start() {
	if s.retentionDays <= 0 {
		log.Info().Msg("[CleanupService] 日志保留天数未设置，跳过定时清理")
		return
	}

	ticker := time.NewTicker(24 * time.Hour)

	// 启动时先运行一次
	go s.RunOnce(context.Background())

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RunOnce(context.Background())
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop 停止定时任务
func (s *CleanupService) Stop() {
	close(s.stop)
}

// RunOnce 清理过期日志
func (s *CleanupService) RunOnce(ctx context.Context) int64 {
	log.Info().Msg("[CleanupService] 开始清理过期日志...")

	affected, err := s.repos.Log.DeleteOlderThan(ctx, s.retentionDays)
	if err != nil {
		log.Error().Err(err).Msg("[CleanupService] 清理日志失败")
		return 0
	}
	log.Info().Int64("affected", affected).Msgf("[CleanupService] 已清理 %d 天前的日志", s.retentionDays)
	return affected
}
