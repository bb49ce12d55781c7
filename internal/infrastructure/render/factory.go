package render

import (
	"fmt"
	"io"

	"github.com/logisense/backend/internal/domain/spatial"
	"github.com/logisense/backend/internal/infrastructure/config"
)

// Renderer 地图渲染器
type Renderer interface {
	Render(w io.Writer, m spatial.Map) error
	Extension() string
}

// NewRenderer 按配置选择渲染格式
func NewRenderer(cfg *config.SpatialConfig) (Renderer, error) {
	switch cfg.Format {
	case "html", "":
		return NewHTMLRenderer(), nil
	case "png":
		return NewPNGRenderer(0, 0), nil
	default:
		return nil, fmt.Errorf("unsupported map format %q", cfg.Format)
	}
}
