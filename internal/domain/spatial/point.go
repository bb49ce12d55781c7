package spatial

// HighDelayThreshold 延误概率高于该值的点以红色标记
const HighDelayThreshold = 0.5

// Point 从摘要中解析出的地理点
type Point struct {
	Date             string  `json:"date"`
	Lat              float64 `json:"lat"`
	Lon              float64 `json:"lon"`
	Fatigue          string  `json:"fatigue"` // High/Moderate/Low
	DelayProbability float64 `json:"delay_probability"`
	Risk             string  `json:"risk"` // High/Moderate/Low
}

// HighDelay 是否为高延误点
func (p Point) HighDelay() bool {
	return p.DelayProbability > HighDelayThreshold
}

// MarkerColor 标记颜色
func (p Point) MarkerColor() string {
	if p.HighDelay() {
		return "red"
	}
	return "green"
}

// Center 计算点集的平均坐标，空集返回 ok=false
func Center(points []Point) (lat, lon float64, ok bool) {
	if len(points) == 0 {
		return 0, 0, false
	}
	for _, p := range points {
		lat += p.Lat
		lon += p.Lon
	}
	n := float64(len(points))
	return lat / n, lon / n, true
}

// Bounds 点集的经纬度范围
func Bounds(points []Point) (minLat, minLon, maxLat, maxLon float64, ok bool) {
	if len(points) == 0 {
		return 0, 0, 0, 0, false
	}
	minLat, maxLat = points[0].Lat, points[0].Lat
	minLon, maxLon = points[0].Lon, points[0].Lon
	for _, p := range points[1:] {
		minLat = min(minLat, p.Lat)
		maxLat = max(maxLat, p.Lat)
		minLon = min(minLon, p.Lon)
		maxLon = max(maxLon, p.Lon)
	}
	return minLat, minLon, maxLat, maxLon, true
}
