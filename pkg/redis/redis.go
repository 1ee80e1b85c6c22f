package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/OpenTreeHole/curriculum-board-backend-next/config"
)

// Client Redis 客户端封装
// 当前用于跨实例共享认证身份缓存；连接失败时上层降级为纯进程内缓存
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

// ── 认证身份缓存 ──

const identityPrefix = "auth:identity:"

// GetIdentity 读取缓存的身份 JSON；未命中返回 ("", nil)
func (c *Client) GetIdentity(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, identityPrefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

// SetIdentity 写入身份 JSON，TTL 到期自动失效
func (c *Client) SetIdentity(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, identityPrefix+key, value, ttl).Err()
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
