// @title logisense API
// @version 1.0
// @description 物流遥测问答服务 API
// @host localhost:8000
// @BasePath /api/v1
// @schemes http
package main

import (
	"context"
	"os"

	"github.com/logisense/backend/internal/infrastructure/config"
	applog "github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/interfaces/cli"
)

func main() {
	// 初始化日志系统（加载配置前使用环境变量配置）
	applog.Init(nil)

	cfg, err := config.Load(os.Getenv(config.EnvConfigPath))
	if err != nil {
		applog.GetLogger().Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	applog.Init(&cfg.Log)

	if err := cli.RunServer(context.Background(), cfg); err != nil {
		applog.GetLogger().Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}
