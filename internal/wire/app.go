package wire

import (
	"context"
	"log/slog"
	"net"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/config"
	applog "github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/infrastructure/watcher"
	"github.com/logisense/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer

	cfg           *config.Config
	intents       *domainQuery.IntentDetector
	configWatcher *watcher.ConfigWatcher
	serveErr      chan error
	logger        *slog.Logger
}

// NewApp 创建应用实例
func NewApp(
	cfg *config.Config,
	httpServer *interfaces.HTTPServer,
	intents *domainQuery.IntentDetector,
) *App {
	return &App{
		HTTPServer: httpServer,
		cfg:        cfg,
		intents:    intents,
		serveErr:   make(chan error, 1),
		logger:     applog.NewModuleLogger("app", "main"),
	}
}

// Start 启动所有服务，ln 为单例锁持有的监听器
func (a *App) Start(ln net.Listener) error {
	a.logger.Info("Starting logisense backend application")

	// 配置文件热更新（仅意图识别模式）
	if a.cfg.Path != "" {
		cw, err := watcher.NewConfigWatcher(a.cfg.Path, watcher.DefaultDebounceDelay, a.reloadIntents)
		if err != nil {
			a.logger.Error("Failed to create config watcher", "error", err)
		} else if err := cw.Start(); err != nil {
			a.logger.Error("Failed to start config watcher", "error", err)
		} else {
			a.configWatcher = cw
			a.logger.Info("Config watcher started", "path", a.cfg.Path)
		}
	}

	go func() {
		a.serveErr <- a.HTTPServer.Start(ln)
	}()

	a.logger.Info("Logisense backend application started successfully",
		"port", a.cfg.Server.HTTPPort,
	)
	return nil
}

// Done HTTP 服务器意外退出时返回错误
func (a *App) Done() <-chan error {
	return a.serveErr
}

// reloadIntents 重新读取配置文件并替换意图识别模式，失败时保留旧模式
func (a *App) reloadIntents(path string) {
	cfg, err := config.Load(path)
	if err != nil {
		a.logger.Warn("Failed to reload config, keeping previous intent patterns", "error", err)
		return
	}
	if err := a.intents.Update(cfg.Intent); err != nil {
		a.logger.Warn("Invalid intent config, keeping previous intent patterns", "error", err)
		return
	}
	a.logger.Info("Intent patterns reloaded", "path", path)
}

// Stop 停止所有服务
func (a *App) Stop(ctx context.Context) error {
	a.logger.Info("Stopping logisense backend application")

	if a.configWatcher != nil {
		a.configWatcher.Stop()
	}

	if err := a.HTTPServer.Shutdown(ctx); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}

	a.logger.Info("Logisense backend application stopped successfully")
	return nil
}
