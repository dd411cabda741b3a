package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Devign20164/DormieReact-sub000/config"
)

// Client Redis 客户端封装
// 当前用于接口限流与工单统计快照缓存
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 接口限流 ──

// CheckRateLimit 基于 ZSET 的滑动窗口限流
// 窗口内请求数未超过 limit 返回 true
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - window.Nanoseconds()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now), Member: now})
	pipe.Expire(ctx, key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return countCmd.Val() < int64(limit), nil
}

// ── 工单统计快照缓存 ──

const statsSnapshotKey = "request:stats:snapshot"

// SetStatsSnapshot 将各状态计数写入 Redis Hash（尽力而为，失败由调用方记录日志）
func (c *Client) SetStatsSnapshot(ctx context.Context, counts map[string]int64, ttl time.Duration) error {
	fields := make(map[string]interface{}, len(counts))
	for status, n := range counts {
		fields[status] = n
	}

	pipe := c.rdb.TxPipeline()
	pipe.Del(ctx, statsSnapshotKey)
	if len(fields) > 0 {
		pipe.HSet(ctx, statsSnapshotKey, fields)
	}
	if ttl > 0 {
		pipe.Expire(ctx, statsSnapshotKey, ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// GetStatsSnapshot 读取缓存的统计快照；缓存缺失时返回 nil
func (c *Client) GetStatsSnapshot(ctx context.Context) (map[string]int64, error) {
	raw, err := c.rdb.HGetAll(ctx, statsSnapshotKey).Result()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	counts := make(map[string]int64, len(raw))
	for status, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("解析统计快照字段 %q 失败: %w", status, err)
		}
		counts[status] = n
	}
	return counts, nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
