package mcp

import (
	"github.com/google/wire"

	appQuery "github.com/logisense/backend/internal/application/query"
)

// ProviderSet MCP ProviderSet
var ProviderSet = wire.NewSet(
	NewServer,
	wire.Bind(new(Assistant), new(*appQuery.AssistantService)),
)
