package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petshop-next/internal/config"
	"github.com/petshop-next/internal/logger"
	"github.com/petshop-next/internal/queue"

	"github.com/hibiken/asynq"
)

const (
	sessionSweepInterval = time.Minute
)

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// SessionExpirer 会话过期检查
type SessionExpirer interface {
	ExpireIfNeeded(ctx context.Context) bool
}

// SweepService 会话过期巡检服务，与队列是否启用无关
type SweepService struct {
	sessions SessionExpirer
	interval time.Duration
	started  atomic.Bool
	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewSweepService 创建会话巡检服务，interval <= 0 时使用默认值
func NewSweepService(sessions SessionExpirer, interval time.Duration) *SweepService {
	if interval <= 0 {
		interval = sessionSweepInterval
	}
	return &SweepService{
		sessions: sessions,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Name 服务名称
func (s *SweepService) Name() string {
	return "session_sweep"
}

// Start 阻塞运行直到 ctx 取消或 Stop
func (s *SweepService) Start(ctx context.Context) error {
	if s == nil || s.sessions == nil {
		return errors.New("session sweep not initialized")
	}
	if !s.started.CompareAndSwap(false, true) {
		return errors.New("session sweep already started")
	}
	defer close(s.done)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.stop:
			cancel()
		case <-ctx.Done():
		}
	}()
	RunSessionSweep(ctx, s.sessions, s.interval)
	return nil
}

// Stop 停止巡检并等待退出
func (s *SweepService) Stop(ctx context.Context) error {
	if s == nil {
		return nil
	}
	s.stopOnce.Do(func() { close(s.stop) })
	if !s.started.Load() {
		return nil
	}
	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunSessionSweep 定期结束已过期的会话，ctx 取消后返回
func RunSessionSweep(ctx context.Context, sessions SessionExpirer, interval time.Duration) {
	if sessions == nil {
		return
	}
	if interval <= 0 {
		interval = sessionSweepInterval
	}
	runOnce := func() {
		if sessions.ExpireIfNeeded(ctx) {
			logger.Infow("worker_session_expired_swept")
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
