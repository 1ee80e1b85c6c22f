package authclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/OpenTreeHole/curriculum-board-backend-next/config"
)

func newTestClient(verifyURL string) *Client {
	return New(&config.AuthConfig{
		VerifyURL:     verifyURL,
		VerifyTimeout: 2 * time.Second,
		CacheTTL:      time.Minute,
	}, nil, zap.NewNop())
}

func TestClient_Verify_Success(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "is_admin": true}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	info, err := c.Verify(context.Background(), "Bearer token-abc")
	if err != nil {
		t.Fatalf("Verify 应成功: %v", err)
	}
	if info.ID != 42 || !info.IsAdmin {
		t.Errorf("身份解析不符: %+v", info)
	}
	// Authorization 头应原样转发
	if gotAuth != "Bearer token-abc" {
		t.Errorf("上游收到的 Authorization 头不符: %s", gotAuth)
	}
}

func TestClient_Verify_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Verify(context.Background(), "Bearer bad-token")
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("期望 ErrUnauthorized，实际: %v", err)
	}
}

func TestClient_Verify_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	_, err := c.Verify(context.Background(), "Bearer token")
	if err == nil {
		t.Fatal("上游 5xx 时 Verify 应失败")
	}
	// 上游故障不能折叠成 401
	if errors.Is(err, ErrUnauthorized) {
		t.Error("上游故障不应映射为 ErrUnauthorized")
	}
}

// TTL 内的重复校验应命中缓存，不再回源
func TestClient_Verify_CachesWithinTTL(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 42, "is_admin": false}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		info, err := c.Verify(ctx, "Bearer token-abc")
		if err != nil {
			t.Fatalf("第%d次 Verify 应成功: %v", i+1, err)
		}
		if info.ID != 42 {
			t.Errorf("第%d次身份不符: %+v", i+1, info)
		}
	}

	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("TTL 内重复校验应只回源一次，实际 %d 次", n)
	}
}

// 不同凭证各自独立缓存
func TestClient_Verify_DistinctCredentials(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		if r.Header.Get("Authorization") == "Bearer admin" {
			w.Write([]byte(`{"id": 1, "is_admin": true}`))
			return
		}
		w.Write([]byte(`{"id": 2, "is_admin": false}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx := context.Background()

	adminInfo, err := c.Verify(ctx, "Bearer admin")
	if err != nil {
		t.Fatalf("Verify 应成功: %v", err)
	}
	userInfo, err := c.Verify(ctx, "Bearer user")
	if err != nil {
		t.Fatalf("Verify 应成功: %v", err)
	}

	if !adminInfo.IsAdmin || userInfo.IsAdmin {
		t.Errorf("身份混淆: admin=%+v user=%+v", adminInfo, userInfo)
	}
	if n := atomic.LoadInt32(&hits); n != 2 {
		t.Errorf("两个不同凭证应各回源一次，实际 %d 次", n)
	}
}

func TestClient_Verify_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)

	if _, err := c.Verify(context.Background(), "Bearer token"); err == nil {
		t.Fatal("响应体非法时 Verify 应失败")
	}
}
