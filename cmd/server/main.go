package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/pressroom/internal/config"
	"github.com/pressroom/internal/db"
	"github.com/pressroom/internal/logger"
	"github.com/pressroom/internal/router"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()

	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logger.Z().Fatal("config load failed", zap.Error(err))
	}
	logger.Init(cfg.GinMode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()

	if isWeakSecret(cfg.SessionSecret) {
		if cfg.GinMode == gin.ReleaseMode {
			logger.Z().Fatal("session secret is weak or still the default; set SESSION_SECRET")
		}
		logger.Warnw("weak_session_secret", "hint", "set SESSION_SECRET before deploying")
	}

	// 初始化数据库
	gdb, err := db.Init(db.Options{
		Driver: cfg.DatabaseDriver,
		DSN:    cfg.DatabasePath,
		Logger: logger.NewGormLogger(gormlogger.Warn),
	})
	if err != nil {
		logger.Z().Fatal("database init failed", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)

	// 设置并运行 Gin 服务器
	r, err := router.SetupRouter(cfg, gdb)
	if err != nil {
		logger.Z().Fatal("router setup failed", zap.Error(err))
	}

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infow("server_started", "addr", cfg.ListenAddr, "driver", cfg.DatabaseDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorw("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("server_shutdown_failed", "error", err)
	}
	logger.Infow("server_stopped")
}

func isWeakSecret(secret string) bool {
	trimmed := strings.TrimSpace(secret)
	return len(trimmed) < 16 || trimmed == config.DefaultSessionSecret
}
