package render

import (
	"fmt"
	"html/template"
	"io"

	"github.com/logisense/backend/internal/domain/spatial"
)

// HTMLRenderer 生成自包含的 Leaflet 地图页面（标记聚合 + 弹窗）
type HTMLRenderer struct {
	tmpl *template.Template
}

type htmlMarker struct {
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Color   string  `json:"color"`
	Date    string  `json:"date"`
	Fatigue string  `json:"fatigue"`
	Delay   float64 `json:"delay"`
	Risk    string  `json:"risk"`
}

type htmlView struct {
	Title     string
	CenterLat float64
	CenterLon float64
	Zoom      int
	Markers   []htmlMarker
	HighDelay int
	Total     int
}

// NewHTMLRenderer 创建 HTML 渲染器
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		tmpl: template.Must(template.New("map").Parse(mapTemplate)),
	}
}

// Extension 输出文件扩展名
func (r *HTMLRenderer) Extension() string {
	return ".html"
}

// Render 渲染地图
func (r *HTMLRenderer) Render(w io.Writer, m spatial.Map) error {
	view := htmlView{
		Title:     m.Title,
		CenterLat: m.CenterLat,
		CenterLon: m.CenterLon,
		Zoom:      m.Zoom,
		Markers:   make([]htmlMarker, 0, len(m.Points)),
		HighDelay: m.HighDelayCount(),
		Total:     len(m.Points),
	}
	for _, p := range m.Points {
		view.Markers = append(view.Markers, htmlMarker{
			Lat:     p.Lat,
			Lon:     p.Lon,
			Color:   p.MarkerColor(),
			Date:    p.Date,
			Fatigue: p.Fatigue,
			Delay:   p.DelayProbability,
			Risk:    p.Risk,
		})
	}

	if err := r.tmpl.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render html map: %w", err)
	}
	return nil
}

const mapTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.css">
<link rel="stylesheet" href="https://unpkg.com/leaflet.markercluster@1.5.3/dist/MarkerCluster.Default.css">
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<script src="https://unpkg.com/leaflet.markercluster@1.5.3/dist/leaflet.markercluster.js"></script>
<style>
html, body, #map { height: 100%; margin: 0; }
.legend { background: #fff; padding: 6px 10px; font: 13px sans-serif; border-radius: 4px; }
</style>
</head>
<body>
<div id="map"></div>
<script>
var map = L.map('map').setView([{{.CenterLat}}, {{.CenterLon}}], {{.Zoom}});
L.tileLayer('https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png', {
  maxZoom: 18,
  attribution: '&copy; OpenStreetMap contributors'
}).addTo(map);

var cluster = L.markerClusterGroup();
var markers = {{.Markers}};
function esc(s) {
  return String(s).replace(/[&<>"']/g, function (c) {
    return {'&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#39;'}[c];
  });
}
markers.forEach(function (m) {
  var popup = '<b>Date:</b> ' + esc(m.date) + '<br>' +
    '<b>Fatigue:</b> ' + esc(m.fatigue) + '<br>' +
    '<b>Delay Prob:</b> ' + esc(m.delay) + '<br>' +
    '<b>Risk:</b> ' + esc(m.risk);
  L.circleMarker([m.lat, m.lon], {
    radius: 8, color: m.color, fillColor: m.color, fillOpacity: 0.8
  }).bindPopup(popup, {maxWidth: 300}).addTo(cluster);
});
map.addLayer(cluster);

var legend = L.control({position: 'bottomright'});
legend.onAdd = function () {
  var div = L.DomUtil.create('div', 'legend');
  div.innerHTML = '<span style="color:red">&#9679;</span> delay &gt; 0.5 ({{.HighDelay}})<br>' +
    '<span style="color:green">&#9679;</span> delay &le; 0.5<br>' +
    '{{.Total}} shipments';
  return div;
};
legend.addTo(map);
</script>
</body>
</html>
`
