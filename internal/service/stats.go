package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Devign20164/DormieReact-sub000/internal/model"
	"github.com/Devign20164/DormieReact-sub000/internal/repository"
	"github.com/Devign20164/DormieReact-sub000/pkg/redis"
)

// StatsAggregator 工单各状态计数快照
//
// 增量路径：每次创建/流转提交后应用一条 delta；
// 全量路径：Recompute 按 status 分组重算。
// 两条路径结果必须一致（守恒：各桶之和 == 工单总数）。
//
// 快照本体在内存中由互斥锁保护；Redis 写穿仅供看板读取，尽力而为。
type StatsAggregator struct {
	mu     sync.Mutex
	counts map[string]int64

	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil（降级：仅内存快照）
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsAggregator 创建 StatsAggregator，各状态桶初始为 0
func NewStatsAggregator(repo *repository.Repository, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *StatsAggregator {
	return &StatsAggregator{
		counts: emptyCounts(),
		repo:   repo,
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

func emptyCounts() map[string]int64 {
	counts := make(map[string]int64, len(model.AllStatuses))
	for _, status := range model.AllStatuses {
		counts[status] = 0
	}
	return counts
}

// Recompute 从数据库全量重算快照（启动预热与漂移校正用）
func (a *StatsAggregator) Recompute(ctx context.Context) error {
	dbCounts, err := a.repo.Request.CountByStatus(ctx)
	if err != nil {
		return err
	}

	counts := emptyCounts()
	for status, n := range dbCounts {
		counts[status] = n
	}

	a.mu.Lock()
	a.counts = counts
	a.mu.Unlock()

	a.writeThrough(ctx)
	return nil
}

// ApplyCreate 新建工单后将其初始状态桶 +1
func (a *StatsAggregator) ApplyCreate(ctx context.Context, status string) {
	a.mu.Lock()
	a.counts[status]++
	a.mu.Unlock()

	a.writeThrough(ctx)
}

// ApplyTransition 流转提交后应用增量：旧桶 -1（下限 0），新桶 +1
// previous == next 时不做任何事（幂等流转不产生 delta）
func (a *StatsAggregator) ApplyTransition(ctx context.Context, previous, next string) {
	if previous == next {
		return
	}

	a.mu.Lock()
	if a.counts[previous] > 0 {
		a.counts[previous]--
	}
	a.counts[next]++
	a.mu.Unlock()

	a.writeThrough(ctx)
}

// Snapshot 返回当前快照副本
func (a *StatsAggregator) Snapshot() map[string]int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]int64, len(a.counts))
	for status, n := range a.counts {
		out[status] = n
	}
	return out
}

// Total 当前快照各桶之和
func (a *StatsAggregator) Total() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	var total int64
	for _, n := range a.counts {
		total += n
	}
	return total
}

func (a *StatsAggregator) writeThrough(ctx context.Context) {
	if a.rdb == nil {
		return
	}
	if err := a.rdb.SetStatsSnapshot(ctx, a.Snapshot(), a.ttl); err != nil {
		a.logger.Warn("统计快照写入 Redis 失败", zap.Error(err))
	}
}
