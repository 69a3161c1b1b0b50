package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RescueHub/internal/dispatch"
	"RescueHub/internal/handler"
	"RescueHub/internal/models"
	"RescueHub/pkg/cache"
	"RescueHub/pkg/config"
	"RescueHub/pkg/i18n"
	"RescueHub/pkg/logger"
	"RescueHub/pkg/middleware"
	"RescueHub/pkg/scheduler"
	"RescueHub/pkg/util"
	"RescueHub/pkg/websocket"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := config.Load(); err != nil {
		logger.Error("load config", zap.Error(err))
		os.Exit(1)
	}
	cfg := config.GlobalConfig

	logger.Init(cfg.Log)
	defer logger.Sync()

	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := util.OpenDatabase(&gorm.Config{}, cfg.DBDriver, cfg.DSN)
	if err != nil {
		logger.Error("open database", zap.Error(err))
		os.Exit(1)
	}
	if err := models.AutoMigrate(db); err != nil {
		logger.Error("migrate database", zap.Error(err))
		os.Exit(1)
	}

	hub := websocket.NewHub(websocket.LoadConfigFromEnv())
	defer hub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// with redis configured, events reach the local hub only through the
	// bridge, same as on every other instance; publishing to the hub
	// directly as well would deliver each event twice to local subscribers
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		bridge := dispatch.NewRedisBridge(redisClient, hub)
		go bridge.Run(ctx)
		logger.Info("redis event mirroring enabled", zap.String("addr", cfg.RedisAddr))
	}
	pub := dispatch.NewEventPublisher(hub, redisClient)

	engine := dispatch.NewEngine(db, pub)

	translator, err := i18n.NewI18nSupport(cfg.DefaultLang)
	if err != nil {
		logger.Error("load locales", zap.Error(err))
		os.Exit(1)
	}

	localCache := cache.NewGoCache(cache.DefaultLocalConfig())
	defer localCache.Close()

	handlers := handler.NewHandlers(db, engine, hub, pub, localCache, translator, cfg)

	router := gin.New()
	router.Use(gin.Recovery())
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	router.Use(sessions.Sessions("rescuehub_session", store))
	router.Use(middleware.WithDB(db))
	router.Use(middleware.Identity())
	router.Use(middleware.Language(cfg.DefaultLang))

	handlers.RegisterRoutes(router, cfg.SubmitRate)

	// sweep teams that stopped reporting their position
	cron := scheduler.NewCron(time.UTC)
	offlineAfter := time.Duration(cfg.TeamOfflineAfterMin) * time.Minute
	_, err = cron.Add("@every 5m", scheduler.FuncJob(func(ctx context.Context) {
		swept, err := models.MarkStaleTeamsOffline(db, offlineAfter)
		if err != nil {
			logger.Warn("stale team sweep failed", zap.Error(err))
			return
		}
		if swept > 0 {
			logger.Info("marked stale teams offline", zap.Int64("count", swept))
		}
	}))
	if err != nil {
		logger.Error("schedule stale team sweep", zap.Error(err))
		os.Exit(1)
	}
	cron.Start()
	defer cron.Stop()

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
