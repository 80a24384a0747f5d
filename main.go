package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/ballethq/internal/bot"
	"github.com/example/ballethq/internal/config"
	"github.com/example/ballethq/internal/excel"
	"github.com/example/ballethq/internal/router"
	"github.com/example/ballethq/internal/scheduler"
	"github.com/example/ballethq/internal/session"
	"github.com/example/ballethq/internal/web"
	"github.com/example/ballethq/pkg/logger"
	"github.com/example/ballethq/pkg/monitoring"
	"go.uber.org/zap"
)

func main() {
	configDir := flag.String("config", "configs", "directory holding config.yaml")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Server.Mode, cfg.Log.File)
	defer logger.Log.Sync()
	monitoring.Init()

	// Создаем контекст, отменяемый сигналом завершения
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := excel.NewStore(cfg.App.Workbook)
	preload(store, cfg)

	rt := router.New(cfg.App.Sections, store)

	janitor := scheduler.New(cfg.Session.CleanupInterval, cfg.Session.IdleTimeout)

	webSessions := session.NewRegistry("web")
	limiter := web.NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	janitor.Register("web_sessions", webSessions)
	janitor.Register("rate_limiter", limiter)

	if cfg.Telegram.Token != "" {
		chatSessions := session.NewRegistry("telegram")
		janitor.Register("telegram_sessions", chatSessions)

		b, err := bot.New(cfg.Telegram.Token, cfg.App.Title, rt, chatSessions)
		if err != nil {
			logger.Log.Error("Telegram bot disabled", zap.Error(err))
		} else {
			go func() {
				if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Log.Error("Bot error", zap.Error(err))
				}
			}()
		}
	}

	if err := janitor.Start(); err != nil {
		logger.Log.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer janitor.Stop()

	srv := web.NewServer(web.Options{
		Title:    cfg.App.Title,
		LogoPath: cfg.App.Logo,
		Mode:     cfg.Server.Mode,
	}, rt, webSessions, limiter)

	if err := srv.Run(ctx, ":"+cfg.Server.Port); err != nil {
		logger.Log.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Log.Info("Server exiting")
}

// preload reads every quiz sheet once so content problems show up in the startup log.
// Failures are not fatal: the affected quiz reports them when opened.
func preload(store *excel.Store, cfg *config.Config) {
	for _, s := range cfg.App.Sections {
		if !s.IsQuiz() {
			continue
		}
		if _, err := store.Questions(s.Sheet); err != nil {
			logger.Log.Warn("Quiz will report a load error", zap.String("section", s.Title), zap.Error(err))
		}
	}
}
