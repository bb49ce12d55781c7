package application

import (
	"github.com/google/wire"

	"github.com/logisense/backend/internal/application/query"
	"github.com/logisense/backend/internal/application/spatial"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	spatial.ProviderSet,
	query.ProviderSet,
)
