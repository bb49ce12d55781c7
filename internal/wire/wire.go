//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/logisense/backend/internal/application"
	appQuery "github.com/logisense/backend/internal/application/query"
	"github.com/logisense/backend/internal/infrastructure"
	"github.com/logisense/backend/internal/infrastructure/config"
	"github.com/logisense/backend/internal/interfaces"
)

// InitializeAssistant 初始化查询服务（CLI 使用）
func InitializeAssistant(cfg *config.Config) (*appQuery.AssistantService, func(), error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		clientSet,                  // 外部服务客户端
		application.ProviderSet,    // 应用层
	)
	return nil, nil, nil
}

// InitializeApp 初始化所有服务（HTTP + WebSocket + MCP）
func InitializeApp(cfg *config.Config) (*App, func(), error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		clientSet,                  // 外部服务客户端
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,
		NewApp,
	)
	return nil, nil, nil
}
