package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/t3ch-N/mAGICAL-clone-sub001/config"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/api/handler"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/api/router"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/authz"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/event"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/repository"
	"github.com/t3ch-N/mAGICAL-clone-sub001/internal/service"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/database"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/jwt"
	applogger "github.com/t3ch-N/mAGICAL-clone-sub001/pkg/logger"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/mailer"
	"github.com/t3ch-N/mAGICAL-clone-sub001/pkg/redis"
)

const mailQueueSize = 256

func main() {
	// 1. configuration
	cfg, err := config.Load(os.Getenv("MKO_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting accreditation server",
		zap.Int("port", cfg.Server.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}

	// 3.1 schema: versioned migrations on postgres, AutoMigrate on sqlite
	if cfg.Database.Driver == config.DriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("get sql.DB", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("run migrations", zap.Error(err))
		}
	} else if err := repository.AutoMigrate(db); err != nil {
		logger.Fatal("auto migrate", zap.Error(err))
	}

	// 4. redis (optional: without it tokens cannot be revoked and rate limits are off)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without token blacklist, rate limiting and event fan-out", zap.Error(err))
		rdb = nil
	}

	// 5. transition events
	broker := event.NewBroker(logger)
	if rdb != nil {
		broker.Subscribe(event.NewRedisPublisher(rdb, cfg.Redis.EventsChannel))
	}
	var notifier *event.MailNotifier
	if cfg.Mail.Enabled {
		sender, err := mailer.NewSMTPSender(&cfg.Mail)
		if err != nil {
			logger.Fatal("init mailer", zap.Error(err))
		}
		notifier = event.NewMailNotifier(sender, logger, mailQueueSize)
		broker.Subscribe(notifier)
	}

	// 6. wiring: Repository → Service → Handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	var blacklist service.TokenBlacklist
	if rdb != nil {
		blacklist = rdb
	}

	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, authz.DefaultPolicy(), jwtMgr, blacklist, broker, logger)
	h := handler.NewHandler(svc)

	// 7. routes
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	// 9. wait for a signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	// drain queued notification mail before the connections go away
	if notifier != nil {
		notifier.Close()
	}

	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
