package service

import (
	"go.uber.org/zap"

	"github.com/Devign20164/DormieReact-sub000/config"
	"github.com/Devign20164/DormieReact-sub000/internal/repository"
	"github.com/Devign20164/DormieReact-sub000/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Request      RequestService
	Notification NotificationService
	Stats        *StatsAggregator
}

// NewService 创建 Service 聚合
//
// rdb 允许为 nil：Redis 不可用时统计退化为纯内存模式。
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	stats := NewStatsAggregator(repo, rdb, cfg.Stats.CacheTTL, logger)
	dispatcher := NewNotificationDispatcher(repo, logger)

	return &Service{
		Request:      NewRequestService(repo, dispatcher, stats, logger),
		Notification: NewNotificationService(repo, logger),
		Stats:        stats,
	}
}
