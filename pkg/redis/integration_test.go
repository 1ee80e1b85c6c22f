//go:build integration

package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/OpenTreeHole/curriculum-board-backend-next/config"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	c, err := NewClient(&config.RedisConfig{Addr: addr}, zap.NewNop())
	if err != nil {
		t.Fatalf("无法连接测试 Redis: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

// 未命中必须返回 ("", nil)，不能把键不存在当作错误往上抛
func TestClient_GetIdentity_Miss(t *testing.T) {
	c := newTestClient(t)

	val, err := c.GetIdentity(context.Background(), fmt.Sprintf("missing-%d", time.Now().UnixNano()))
	if err != nil {
		t.Fatalf("未命中不应报错: %v", err)
	}
	if val != "" {
		t.Errorf("未命中应返回空串，实际: %q", val)
	}
}

func TestClient_IdentityRoundTrip(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	key := fmt.Sprintf("test-%d", time.Now().UnixNano())
	if err := c.SetIdentity(ctx, key, `{"id":42,"is_admin":false}`, time.Minute); err != nil {
		t.Fatalf("SetIdentity 失败: %v", err)
	}

	val, err := c.GetIdentity(ctx, key)
	if err != nil {
		t.Fatalf("GetIdentity 失败: %v", err)
	}
	if val != `{"id":42,"is_admin":false}` {
		t.Errorf("读回的身份不符: %s", val)
	}
}

func TestClient_IdentityExpires(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	key := fmt.Sprintf("ttl-%d", time.Now().UnixNano())
	if err := c.SetIdentity(ctx, key, `{"id":1}`, 50*time.Millisecond); err != nil {
		t.Fatalf("SetIdentity 失败: %v", err)
	}
	time.Sleep(100 * time.Millisecond)

	val, err := c.GetIdentity(ctx, key)
	if err != nil {
		t.Fatalf("过期后的读取不应报错: %v", err)
	}
	if val != "" {
		t.Errorf("TTL 到期后应未命中，实际: %q", val)
	}
}
