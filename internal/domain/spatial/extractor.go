package spatial

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultSummaryPattern 摘要字段提取模式
// 与入库时生成摘要的句式对应，命名捕获组即字段名
const DefaultSummaryPattern = `(?is)on\s+(?P<date>\d{4}-\d{2}-\d{2})[\s\d:]*.*?` +
	`GPS\s*\(\s*(?P<lat>-?[\d.]+)\s*,\s*(?P<lon>-?[\d.]+)\s*\).*?` +
	`\b(?P<fatigue>high|moderate|low)\s+(?:driver\s+)?fatigue.*?` +
	`delay probability (?:was )?(?:marked as )?(?P<delay>[\d.]+).*?` +
	`risk classification (?:was )?(?:marked as )?(?P<risk>high|moderate|low)`

// 必需的命名捕获组
var requiredGroups = []string{"date", "lat", "lon", "fatigue", "delay", "risk"}

// Extractor 基于命名捕获组的摘要字段提取器
// 不匹配或字段非法的摘要直接丢弃
type Extractor struct {
	pattern *regexp.Regexp
	groups  map[string]int
}

// NewExtractor 编译提取模式，模式必须包含全部必需的命名捕获组
func NewExtractor(pattern string) (*Extractor, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = DefaultSummaryPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid summary pattern: %w", err)
	}

	groups := make(map[string]int)
	for i, name := range re.SubexpNames() {
		if name != "" {
			groups[name] = i
		}
	}
	for _, name := range requiredGroups {
		if _, ok := groups[name]; !ok {
			return nil, fmt.Errorf("summary pattern missing named group %q", name)
		}
	}

	return &Extractor{
		pattern: re,
		groups:  groups,
	}, nil
}

// NewDefaultExtractor 使用默认模式创建提取器
func NewDefaultExtractor() *Extractor {
	e, err := NewExtractor(DefaultSummaryPattern)
	if err != nil {
		panic(err)
	}
	return e
}

// Extract 解析单条摘要
func (e *Extractor) Extract(summary string) (Point, bool) {
	m := e.pattern.FindStringSubmatch(summary)
	if m == nil {
		return Point{}, false
	}
	field := func(name string) string {
		return strings.TrimSpace(m[e.groups[name]])
	}

	lat, err := strconv.ParseFloat(field("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		return Point{}, false
	}
	lon, err := strconv.ParseFloat(field("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		return Point{}, false
	}
	// 句末的句号会被数字模式一并捕获
	delay, err := strconv.ParseFloat(strings.TrimRight(field("delay"), "."), 64)
	if err != nil {
		return Point{}, false
	}

	// Caser 有状态，不能在 goroutine 之间共享
	title := cases.Title(language.English)
	return Point{
		Date:             field("date"),
		Lat:              lat,
		Lon:              lon,
		Fatigue:          title.String(strings.ToLower(field("fatigue"))),
		DelayProbability: delay,
		Risk:             title.String(strings.ToLower(field("risk"))),
	}, true
}

// ExtractAll 解析全部摘要，丢弃无法解析的条目
func (e *Extractor) ExtractAll(summaries []string) []Point {
	points := make([]Point, 0, len(summaries))
	for _, s := range summaries {
		if p, ok := e.Extract(s); ok {
			points = append(points, p)
		}
	}
	return points
}
