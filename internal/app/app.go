// Package app wires configuration, logging, the Telegram transport, the
// optional send-history store, and the poll loop into one lifecycle.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"hwbot/internal/config"
	"hwbot/internal/notify"
	"hwbot/internal/practicum"
	"hwbot/internal/storage"
	"hwbot/internal/transport"
	"hwbot/internal/transport/telegram"
	"hwbot/internal/watcher"
	"hwbot/pkg/logx"
	"hwbot/pkg/sdnotify"
)

type App struct {
	cfgMgr  *config.Manager
	logSvc  *logx.Service
	log     logx.Logger
	adapter *telegram.Adapter
	store   storage.Store
	watcher *watcher.Watcher

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New loads and validates configuration, then constructs every component.
// A missing required value is fatal here, before the loop ever starts.
func New(cfgPath string) (*App, error) {
	boot := logx.NewConsole("info")

	cfgMgr := config.NewManager(cfgPath, boot)
	cfg, err := cfgMgr.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	chatID, err := cfg.ParseChatID()
	if err != nil {
		return nil, err
	}

	clientTimeout, err := config.ParseDurationOrDefault("telegram.client_timeout", cfg.Telegram.ClientTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	adapter, err := telegram.New(telegram.Config{Token: cfg.Telegram.Token, ClientTimeout: clientTimeout}, boot)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}

	logSvc, log := logx.New(logConfig(cfg.Logging), adapter)
	logSvc.SetTelegramTarget(chatID)
	cfgMgr.SetLogger(log)

	store, err := openStorage(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	requestTimeout, err := config.ParseDurationOrDefault("practicum.request_timeout", cfg.Practicum.RequestTimeout, 15*time.Second)
	if err != nil {
		return nil, err
	}
	client := practicum.NewClient(practicum.ClientConfig{
		Endpoint: cfg.Practicum.Endpoint,
		Token:    cfg.Practicum.Token,
		Timeout:  requestTimeout,
	}, log.With(logx.String("component", "practicum")))

	sched, err := watcher.ParseSchedule(cfg.Practicum.PollSchedule)
	if err != nil {
		return nil, err
	}

	notifier := notify.New(adapter, transport.ChatTarget{ChatID: chatID}, store,
		log.With(logx.String("component", "notify")))
	w := watcher.New(client, notifier, sched, log.With(logx.String("component", "watcher")))

	if !cfgMgr.Exists() {
		log.Info("no config file; using defaults and environment", logx.String("path", cfgPath))
	}

	return &App{
		cfgMgr:  cfgMgr,
		logSvc:  logSvc,
		log:     log,
		adapter: adapter,
		store:   store,
		watcher: w,
	}, nil
}

// Start launches the poll loop plus the supporting goroutines: config watch,
// logging reconfiguration, systemd watchdog.
func (a *App) Start(ctx context.Context) error {
	rctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		_ = a.cfgMgr.Watch(rctx)
	}()

	// Only logging is live-reloadable; tokens, chat and schedule are fixed
	// for the process lifetime.
	sub := a.cfgMgr.Subscribe(1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		for {
			select {
			case <-rctx.Done():
				return
			case cfg := <-sub:
				if cfg == nil {
					continue
				}
				a.logSvc.Apply(logConfig(cfg.Logging))
				a.log.Info("logging configuration applied", logx.String("level", cfg.Logging.Level))
			}
		}
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		sdnotify.WatchdogLoop(rctx, a.log)
	}()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.watcher.Run(rctx)
	}()

	sdnotify.Ready(a.log)
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	sdnotify.Stopping()
	if a.cancel != nil {
		a.cancel()
	}
	a.wg.Wait()

	if a.adapter != nil {
		_ = a.adapter.Stop(ctx)
	}
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logSvc != nil {
		_ = a.logSvc.Close()
	}
	return nil
}

func openStorage(cfg *config.StorageConfig, log logx.Logger) (storage.Store, error) {
	if cfg == nil {
		return nil, nil
	}
	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.BusyTimeout)
	if err != nil {
		return nil, err
	}
	store, err := storage.Open(storage.Config{
		Driver:      cfg.Driver,
		Path:        cfg.Path,
		BusyTimeout: busy,
	}, log.With(logx.String("component", "storage")))
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	return store, nil
}

func logConfig(c config.LoggingConfig) logx.Config {
	return logx.Config{
		Level:   c.Level,
		Console: c.Console,
		File: logx.FileConfig{
			Enabled: c.File.Enabled,
			Path:    c.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    c.Telegram.Enabled,
			MinLevel:   c.Telegram.MinLevel,
			RatePerSec: c.Telegram.RatePerSec,
		},
	}
}
