package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/OpenTreeHole/curriculum-board-backend-next/config"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/api/handler"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/api/router"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/repository"
	"github.com/OpenTreeHole/curriculum-board-backend-next/internal/service"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/authclient"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/database"
	applogger "github.com/OpenTreeHole/curriculum-board-backend-next/pkg/logger"
	"github.com/OpenTreeHole/curriculum-board-backend-next/pkg/redis"
)

func main() {
	// 1. 加载 .env（不存在时静默跳过）与配置
	_ = godotenv.Load()

	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：仅作为跨实例身份缓存，失败时降级为进程内缓存）
	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，身份缓存降级为进程内缓存", zap.Error(err))
			rdb = nil
		}
	}

	// 5. 初始化外部认证客户端
	authClient := authclient.New(&cfg.Auth, rdb, logger)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(repo, logger)
	h := handler.NewHandler(svc)

	// 7. 可选的定时缓存失效（未配置时列表缓存仅在显式失效时重建）
	var scheduler *cron.Cron
	if cfg.Cache.RefreshCron != "" {
		scheduler = cron.New()
		if _, err := scheduler.AddFunc(cfg.Cache.RefreshCron, svc.Listing.Invalidate); err != nil {
			logger.Fatal("注册定时缓存失效任务失败",
				zap.String("cron", cfg.Cache.RefreshCron), zap.Error(err))
		}
		scheduler.Start()
		logger.Info("定时缓存失效任务已注册", zap.String("cron", cfg.Cache.RefreshCron))
	}

	// 8. 初始化路由并启动 HTTP 服务
	engine := router.Setup(cfg, h, authClient, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: engine,
	}

	go func() {
		logger.Info("HTTP 服务已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	// 9. 优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("收到退出信号，开始优雅关停...")

	if scheduler != nil {
		scheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP 服务关停失败", zap.Error(err))
	}

	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("关闭 Redis 连接失败", zap.Error(err))
		}
	}

	logger.Info("应用已退出")
}
