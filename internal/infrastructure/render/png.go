package render

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/logisense/backend/internal/domain/spatial"
)

var (
	colorBackground = color.RGBA{R: 245, G: 247, B: 250, A: 255}
	colorGrid       = color.RGBA{R: 210, G: 215, B: 222, A: 255}
	colorText       = color.RGBA{R: 40, G: 44, B: 52, A: 255}
	colorHigh       = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	colorLow        = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// PNGRenderer 生成静态散点地图（等距圆柱投影），适合不能执行脚本的客户端
type PNGRenderer struct {
	width  int
	height int
	margin float64
}

// NewPNGRenderer 创建 PNG 渲染器
func NewPNGRenderer(width, height int) *PNGRenderer {
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 768
	}
	return &PNGRenderer{width: width, height: height, margin: 60}
}

// Extension 输出文件扩展名
func (r *PNGRenderer) Extension() string {
	return ".png"
}

// Render 渲染地图
func (r *PNGRenderer) Render(w io.Writer, m spatial.Map) error {
	if len(m.Points) == 0 {
		return fmt.Errorf("no points to render")
	}

	dc := gg.NewContext(r.width, r.height)
	dc.SetColor(colorBackground)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	proj := r.projection(m)

	// 经纬网格
	dc.SetColor(colorGrid)
	dc.SetLineWidth(1)
	for i := 0; i <= 4; i++ {
		lat := proj.minLat + (proj.maxLat-proj.minLat)*float64(i)/4
		_, y := proj.point(proj.minLon, lat)
		dc.DrawLine(r.margin, y, float64(r.width)-r.margin, y)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", lat), r.margin-6, y, 1, 0.5)
		dc.SetColor(colorGrid)

		lon := proj.minLon + (proj.maxLon-proj.minLon)*float64(i)/4
		x, _ := proj.point(lon, proj.minLat)
		dc.DrawLine(x, r.margin, x, float64(r.height)-r.margin)
		dc.Stroke()
		dc.SetColor(colorText)
		dc.DrawStringAnchored(fmt.Sprintf("%.2f", lon), x, float64(r.height)-r.margin+14, 0.5, 0.5)
		dc.SetColor(colorGrid)
	}

	for _, p := range m.Points {
		x, y := proj.point(p.Lon, p.Lat)
		dc.DrawCircle(x, y, 6)
		if p.HighDelay() {
			dc.SetColor(colorHigh)
		} else {
			dc.SetColor(colorLow)
		}
		dc.FillPreserve()
		dc.SetColor(color.White)
		dc.SetLineWidth(1.5)
		dc.Stroke()
	}

	// 标题与图例
	dc.SetColor(colorText)
	dc.DrawStringAnchored(m.Title, float64(r.width)/2, r.margin/2, 0.5, 0.5)
	r.drawLegend(dc, m)

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode png map: %w", err)
	}
	return nil
}

func (r *PNGRenderer) drawLegend(dc *gg.Context, m spatial.Map) {
	x := float64(r.width) - r.margin - 150
	y := r.margin + 10

	dc.SetColor(colorHigh)
	dc.DrawCircle(x, y, 5)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawString(fmt.Sprintf("delay > %.1f (%d)", spatial.HighDelayThreshold, m.HighDelayCount()), x+10, y+4)

	dc.SetColor(colorLow)
	dc.DrawCircle(x, y+18, 5)
	dc.Fill()
	dc.SetColor(colorText)
	dc.DrawString(fmt.Sprintf("delay <= %.1f (%d)", spatial.HighDelayThreshold, len(m.Points)-m.HighDelayCount()), x+10, y+22)
}

type projection struct {
	minLat, minLon, maxLat, maxLon float64
	x0, y0, scale                  float64
	height                         float64
}

// projection 根据点集范围计算缩放，保证经纬度等比例
func (r *PNGRenderer) projection(m spatial.Map) projection {
	minLat, minLon, maxLat, maxLon, _ := spatial.Bounds(m.Points)

	// 单点或共线时扩展范围
	const pad = 0.5
	if maxLat-minLat < 1e-6 {
		minLat, maxLat = minLat-pad, maxLat+pad
	}
	if maxLon-minLon < 1e-6 {
		minLon, maxLon = minLon-pad, maxLon+pad
	}

	plotW := float64(r.width) - 2*r.margin
	plotH := float64(r.height) - 2*r.margin
	scale := math.Min(plotW/(maxLon-minLon), plotH/(maxLat-minLat))

	return projection{
		minLat: minLat, minLon: minLon, maxLat: maxLat, maxLon: maxLon,
		x0:     r.margin + (plotW-(maxLon-minLon)*scale)/2,
		y0:     r.margin + (plotH-(maxLat-minLat)*scale)/2,
		scale:  scale,
		height: (maxLat - minLat) * scale,
	}
}

func (p projection) point(lon, lat float64) (float64, float64) {
	x := p.x0 + (lon-p.minLon)*p.scale
	y := p.y0 + p.height - (lat-p.minLat)*p.scale
	return x, y
}
