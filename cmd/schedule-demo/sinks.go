package main

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/observer"
	"github.com/noah-isme/sma-course-patterns/internal/repository"
	"github.com/noah-isme/sma-course-patterns/internal/service"
	"github.com/noah-isme/sma-course-patterns/pkg/cache"
	"github.com/noah-isme/sma-course-patterns/pkg/config"
	"github.com/noah-isme/sma-course-patterns/pkg/database"
	"github.com/noah-isme/sma-course-patterns/pkg/jobs"
)

// sinkSet owns the optional Redis and audit observers and the connections behind them.
type sinkSet struct {
	observers []service.Observer
	async     []*observer.AsyncObserver
	closers   []func() error
	once      sync.Once
}

// openSinks connects the sinks enabled in cfg. A sink whose backend is unreachable is skipped with a warning.
func openSinks(ctx context.Context, cfg *config.Config, logger *zap.Logger) *sinkSet {
	set := &sinkSet{}
	n := cfg.Notifications

	if n.RedisEnabled {
		client, err := cache.NewRedis(ctx, cfg.Redis, sinkTimeout(n))
		if err != nil {
			logger.Warn("redis fan-out disabled", zap.String("addr", cache.Addr(cfg.Redis)), zap.Error(err))
		} else {
			set.closers = append(set.closers, client.Close)
			publisher := repository.NewNotificationPublisher(client, n.RedisChannel)
			set.add(ctx, n, logger, "redis:"+publisher.Channel(), publisher)
		}
	}

	if n.AuditEnabled {
		connectCtx, cancel := context.WithTimeout(ctx, sinkTimeout(n))
		db, err := database.NewPostgres(connectCtx, cfg.Database)
		if err != nil {
			logger.Warn("notification audit disabled", zap.String("host", cfg.Database.Host), zap.Error(err))
		} else {
			repo := repository.NewNotificationRepository(db)
			if err := repo.EnsureSchema(connectCtx); err != nil {
				logger.Warn("notification audit disabled", zap.Error(err))
				_ = db.Close()
			} else {
				set.closers = append(set.closers, db.Close)
				set.add(ctx, n, logger, "audit", repo)
			}
		}
		cancel()
	}

	return set
}

// sinkTimeout bounds backend connects, falling back to 5s when unset.
func sinkTimeout(n config.NotificationsConfig) time.Duration {
	if n.SinkTimeout <= 0 {
		return 5 * time.Second
	}
	return n.SinkTimeout
}

func (s *sinkSet) add(ctx context.Context, n config.NotificationsConfig, logger *zap.Logger, name string, sink observer.NotificationSink) {
	fwd := observer.NewForwarder(name, sink, n.SinkTimeout, logger)
	if !n.AsyncEnabled {
		s.observers = append(s.observers, fwd)
		return
	}

	async := observer.NewAsyncObserver(name, fwd, jobs.QueueConfig{
		Workers:    n.Workers,
		BufferSize: n.BufferSize,
		MaxRetries: n.MaxRetries,
		RetryDelay: n.RetryDelay,
		Logger:     logger,
	})
	async.Start(ctx)
	s.async = append(s.async, async)
	s.observers = append(s.observers, async)
	logger.Debug("notification sink is asynchronous", zap.String("sink", name), zap.Int("workers", n.Workers))
}

// Close flushes the asynchronous sinks, then releases connections. Safe to call more than once.
func (s *sinkSet) Close() {
	s.once.Do(func() {
		for _, a := range s.async {
			a.Stop()
		}
		for _, closeFn := range s.closers {
			_ = closeFn()
		}
	})
}
