package spatial

// DefaultZoom 初始缩放级别
const DefaultZoom = 5

// Map 待渲染的地图：点集 + 视图中心
type Map struct {
	Title     string
	Points    []Point
	CenterLat float64
	CenterLon float64
	Zoom      int
}

// NewMap 以点集平均坐标为中心构建地图，空点集返回 ok=false
func NewMap(title string, points []Point) (Map, bool) {
	lat, lon, ok := Center(points)
	if !ok {
		return Map{}, false
	}
	return Map{
		Title:     title,
		Points:    points,
		CenterLat: lat,
		CenterLon: lon,
		Zoom:      DefaultZoom,
	}, true
}

// HighDelayCount 高延误点数量
func (m Map) HighDelayCount() int {
	n := 0
	for _, p := range m.Points {
		if p.HighDelay() {
			n++
		}
	}
	return n
}
