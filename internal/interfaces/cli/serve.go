package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/logisense/backend/internal/infrastructure/config"
	applog "github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/infrastructure/singleton"
	"github.com/logisense/backend/internal/wire"
)

// shutdownTimeout 优雅关闭超时
const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动 HTTP / WebSocket / MCP 服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunServer(cmd.Context(), cfg)
	},
}

// RunServer 获取端口锁并运行服务，直到收到退出信号
// 端口上已有健康实例时直接返回
func RunServer(ctx context.Context, cfg *config.Config) error {
	logger := applog.NewModuleLogger("app", "serve")

	listener, err := singleton.CheckAndLock(cfg.Server.HTTPPort)
	if errors.Is(err, singleton.ErrAlreadyRunning) {
		logger.Info("Another instance is already running, exiting", "port", cfg.Server.HTTPPort)
		return nil
	}
	if err != nil {
		return fmt.Errorf("singleton lock failed: %w", err)
	}

	app, cleanup, err := wire.InitializeApp(cfg)
	if err != nil {
		_ = listener.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer cleanup()

	if err := app.Start(listener); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down application...")
	case serveErr = <-app.Done():
		if serveErr != nil {
			logger.Error("HTTP server stopped unexpectedly", "error", serveErr)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.Stop(shutdownCtx); err != nil {
		logger.Error("Error during application shutdown", "error", err)
	}
	logger.Info("Application stopped")
	return serveErr
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
