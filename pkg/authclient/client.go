package authclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/OpenTreeHole/curriculum-board-backend-next/config"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/dto"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/redis"
)

// ErrUnauthorized 外部认证服务判定凭证无效
var ErrUnauthorized = errors.New("认证失败")

// Client 外部认证服务客户端
// 将 Authorization 头原样转发给校验服务换取 {id, is_admin}；
// 结果短暂缓存（进程内 TTL 缓存 + 可选 Redis 共享层），避免突发请求逐一回源
type Client struct {
	http   *resty.Client
	local  *gocache.Cache
	rdb    *redis.Client
	cfg    *config.AuthConfig
	logger *zap.Logger
}

// New 创建认证客户端；rdb 可为 nil，此时仅使用进程内缓存
func New(cfg *config.AuthConfig, rdb *redis.Client, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.VerifyURL).
		SetTimeout(cfg.VerifyTimeout)

	return &Client{
		http:   httpClient,
		local:  gocache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
		rdb:    rdb,
		cfg:    cfg,
		logger: logger,
	}
}

// Verify 校验 Authorization 头并返回用户身份
// 上游 401 → ErrUnauthorized；其余失败 → 内部错误
func (c *Client) Verify(ctx context.Context, authorization string) (*dto.UserInfo, error) {
	if info, ok := c.local.Get(authorization); ok {
		u := info.(dto.UserInfo)
		return &u, nil
	}

	key := cacheKey(authorization)
	if c.rdb != nil {
		cached, err := c.rdb.GetIdentity(ctx, key)
		if err != nil {
			c.logger.Warn("读取 Redis 身份缓存失败", zap.Error(err))
		} else if cached != "" {
			var info dto.UserInfo
			if err := json.Unmarshal([]byte(cached), &info); err == nil {
				c.local.SetDefault(authorization, info)
				return &info, nil
			}
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", authorization).
		Get("")
	if err != nil {
		return nil, fmt.Errorf("请求认证服务失败: %w", err)
	}

	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("认证服务返回异常状态 %d", resp.StatusCode())
	}

	var info dto.UserInfo
	if err := json.Unmarshal(resp.Body(), &info); err != nil {
		return nil, fmt.Errorf("解析认证服务响应失败: %w", err)
	}

	c.local.SetDefault(authorization, info)
	if c.rdb != nil {
		raw, _ := json.Marshal(info)
		if err := c.rdb.SetIdentity(ctx, key, string(raw), c.cfg.CacheTTL); err != nil {
			c.logger.Warn("写入 Redis 身份缓存失败", zap.Error(err))
		}
	}

	return &info, nil
}

// cacheKey 不把原始凭证当作共享缓存键，取其摘要
func cacheKey(authorization string) string {
	sum := sha256.Sum256([]byte(authorization))
	return hex.EncodeToString(sum[:])
}
