package handler

import (
	"github.com/google/wire"

	appQuery "github.com/logisense/backend/internal/application/query"
)

// ProviderSet Handler ProviderSet
var ProviderSet = wire.NewSet(
	NewQueryHandler,
	NewChatHandler,
	NewReadyHandler,
	wire.Bind(new(Assistant), new(*appQuery.AssistantService)),
)
