package spatial

import "github.com/google/wire"

// ProviderSet 地图应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewPlotter,
)
