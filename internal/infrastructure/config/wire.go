package config

import "github.com/google/wire"

// ProviderSet 配置 ProviderSet（*Config 由调用方通过 Load 提供）
var ProviderSet = wire.NewSet(
	NewServerConfig,
	NewPipelineConfig,
	NewSpatialConfig,
	NewSessionConfig,
)
