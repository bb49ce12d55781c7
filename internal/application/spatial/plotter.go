package spatial

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	domainSpatial "github.com/logisense/backend/internal/domain/spatial"
	"github.com/logisense/backend/internal/infrastructure/config"
	"github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/infrastructure/render"
)

// DefaultMapName 默认会话的地图文件名（不含扩展名）
const DefaultMapName = "map"

const mapTitle = "Shipment Delay Clusters"

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Artifact 已写出的地图文件
type Artifact struct {
	Path   string `json:"path"`
	URL    string `json:"url"`
	Points int    `json:"points"`
}

// Plotter 从摘要中解析坐标并写出地图文件
// 任何失败都只返回 false，不影响调用方的主流程
type Plotter struct {
	extractor     *domainSpatial.Extractor
	renderer      render.Renderer
	outputDir     string
	publicBaseURL string
	logger        *slog.Logger
}

// NewPlotter 创建绘图器，SummaryPattern 为空时使用默认模式
func NewPlotter(cfg *config.SpatialConfig, renderer render.Renderer) (*Plotter, error) {
	extractor, err := domainSpatial.NewExtractor(cfg.SummaryPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid spatial summary pattern: %w", err)
	}
	return &Plotter{
		extractor:     extractor,
		renderer:      renderer,
		outputDir:     cfg.OutputDir,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		logger:        log.NewModuleLogger("spatial", "plotter"),
	}, nil
}

// OutputDir 地图输出目录（HTTP 以 /static 暴露）
func (p *Plotter) OutputDir() string {
	return p.outputDir
}

// Plot 绘制地图，name 用于区分会话，避免并发会话互相覆盖
func (p *Plotter) Plot(ctx context.Context, name string, summaries []string) (Artifact, bool) {
	logger := log.FromContext(ctx, p.logger)

	points := p.extractor.ExtractAll(summaries)
	m, ok := domainSpatial.NewMap(mapTitle, points)
	if !ok {
		logger.Warn("No valid geospatial records found, map not generated",
			"summaries", len(summaries),
		)
		return Artifact{}, false
	}

	var buf bytes.Buffer
	if err := p.renderer.Render(&buf, m); err != nil {
		logger.Error("Failed to render map", "error", err)
		return Artifact{}, false
	}

	filename := mapFileName(name) + p.renderer.Extension()
	path := filepath.Join(p.outputDir, filename)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		logger.Error("Failed to save map", "path", path, "error", err)
		return Artifact{}, false
	}

	logger.Info("Map saved",
		"path", path,
		"points", len(points),
		"dropped", len(summaries)-len(points),
	)
	return Artifact{
		Path:   path,
		URL:    p.publicBaseURL + "/" + filename,
		Points: len(points),
	}, true
}

// mapFileName 会话 ID 转为安全的文件名
// 清洗后的 ID 可能重名（a/b 与 a_b），追加原始 ID 的短哈希
func mapFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name == "default" {
		return DefaultMapName
	}
	sum := sha256.Sum256([]byte(name))
	return DefaultMapName + "-" + unsafeNameChars.ReplaceAllString(name, "_") + "-" + hex.EncodeToString(sum[:4])
}

// writeFileAtomic 先写临时文件再重命名，读者不会看到半写入的地图
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".map-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close map: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("failed to chmod map: %w", err)
	}
	return os.Rename(tmpName, path)
}
