package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/user/streamhub/internal/model"
	"github.com/user/streamhub/internal/repository"
)

// LogWriter 异步写入数据库日志，队列满或已关闭时直接丢弃
type LogWriter struct {
	repo   *repository.LogRepository
	queue  chan *model.Log
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewLogWriter 创建日志写入器并启动后台协程
func NewLogWriter(repo *repository.LogRepository, size int) *LogWriter {
	if size <= 0 {
		size = 256
	}
	w := &LogWriter{repo: repo, queue: make(chan *model.Log, size)}
	w.wg.Add(1)
	go w.run()
	return w
}

// Record 投递一条日志，不阻塞请求
func (w *LogWriter) Record(entry *model.Log) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}
	select {
	case w.queue <- entry:
	default:
		log.Warn().Str("message", entry.Message).Msg("[LogWriter] 日志队列已满，丢弃")
	}
}

// Close 停止接收并等待队列写完，可重复调用
func (w *LogWriter) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.queue)
	}
	w.mu.Unlock()
	w.wg.Wait()
}

func (w *LogWriter) run() {
	defer w.wg.Done()
	for entry := range w.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := w.repo.Write(ctx, entry); err != nil {
			log.Error().Err(err).Msg("[LogWriter] 写入日志失败")
		}
		cancel()
	}
}
