package infrastructure

import (
	"github.com/google/wire"

	"github.com/logisense/backend/internal/infrastructure/config"
	"github.com/logisense/backend/internal/infrastructure/session"
)

// ProviderSet Infrastructure 层总 ProviderSet
// 外部服务客户端依赖 *config.Config 的多个字段，在顶层 wire 包中提供
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	session.ProviderSet,
)
