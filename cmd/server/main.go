package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jbedje/pme-360-backend-deploy/config"
	"github.com/jbedje/pme-360-backend-deploy/internal/api/handler"
	"github.com/jbedje/pme-360-backend-deploy/internal/api/router"
	"github.com/jbedje/pme-360-backend-deploy/internal/realtime"
	"github.com/jbedje/pme-360-backend-deploy/internal/repository"
	"github.com/jbedje/pme-360-backend-deploy/internal/service"
	"github.com/jbedje/pme-360-backend-deploy/pkg/database"
	"github.com/jbedje/pme-360-backend-deploy/pkg/jwt"
	"github.com/jbedje/pme-360-backend-deploy/pkg/logger"
	"github.com/jbedje/pme-360-backend-deploy/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	zapLogger, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer zapLogger.Sync() //nolint:errcheck

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewDB(&cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("连接数据库失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		zapLogger.Fatal("获取底层连接失败", zap.Error(err))
	}
	defer sqlDB.Close()

	if err := database.RunMigrations(sqlDB, zapLogger); err != nil {
		zapLogger.Fatal("执行数据库迁移失败", zap.Error(err))
	}

	rdb, err := redis.NewClient(&cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("连接 Redis 失败", zap.Error(err))
	}
	defer rdb.Close()

	jwtManager := jwt.NewManager(&cfg.Auth)
	gateway := realtime.NewGateway(&cfg.WS, cfg.Server.CORS.AllowOrigins, jwtManager, zapLogger)

	repo := repository.NewRepository(db)
	svc := service.NewService(repo, jwtManager, rdb, gateway, zapLogger)
	h := handler.NewHandler(svc, zapLogger)

	engine := router.Setup(cfg, h, gateway, jwtManager, rdb, zapLogger)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 后台任务：通知保留清理与活动提醒
	jobCtx, stopJobs := context.WithCancel(context.Background())
	go runSweeper(jobCtx, cfg, svc, zapLogger)
	go runReminder(jobCtx, cfg, svc, zapLogger)

	go func() {
		zapLogger.Info("HTTP 服务启动", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("HTTP 服务异常退出", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("收到退出信号，开始优雅关闭")
	stopJobs()
	gateway.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("优雅关闭失败", zap.Error(err))
	}
	zapLogger.Info("服务已退出")
}

// runSweeper 周期清理过期已读通知
func runSweeper(ctx context.Context, cfg *config.Config, svc *service.Service, zapLogger *zap.Logger) {
	ticker := time.NewTicker(cfg.Retention.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Notification.Sweep(ctx, cfg.Retention.MaxAge); err != nil {
				zapLogger.Error("通知清理任务失败", zap.Error(err))
			}
		}
	}
}

// runReminder 周期发送活动开始前的提醒
func runReminder(ctx context.Context, cfg *config.Config, svc *service.Service, zapLogger *zap.Logger) {
	ticker := time.NewTicker(cfg.Retention.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := svc.Event.SendReminders(ctx); err != nil {
				zapLogger.Error("活动提醒任务失败", zap.Error(err))
			}
		}
	}
}
