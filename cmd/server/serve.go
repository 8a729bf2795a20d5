package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/user/streamhub/internal/handler"
	"github.com/user/streamhub/internal/middleware"
	"github.com/user/streamhub/internal/repository"
	"github.com/user/streamhub/internal/router"
	"github.com/user/streamhub/internal/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动 HTTP 服务（默认命令）",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	// 初始化数据库
	db, err := openDB()
	if err != nil {
		return err
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 日志落库
	var sink middleware.LogSink
	var logWriter *service.LogWriter
	if cfg.LogToDB {
		logWriter = service.NewLogWriter(repos.Log, 512)
		defer logWriter.Close()
		sink = logWriter
	}

	// 外部评分查询，未配置 API Key 时不启用
	var rating service.RatingLookup
	if cfg.RatingAPIKey != "" {
		rating = service.NewRatingService(cfg)
	} else {
		log.Info().Msg("未配置 RATING_API_KEY，跳过外部评分查询")
	}

	// 初始化 Handler 和路由
	h := handler.NewHandler(repos, cfg, rating)
	r := router.New(h, sink)

	// 启动定时清理任务
	cleanupSvc := service.NewCleanupService(repos, cfg.LogRetentionDays)
	cleanupSvc.Start()
	defer cleanupSvc.Stop()

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("服务器启动于 http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-quit:
	}
	log.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	log.Info().Msg("服务器已退出")
	return nil
}
