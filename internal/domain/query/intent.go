package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync/atomic"
)

// DefaultFollowUpCount 追问未给出数量时的默认条数
const DefaultFollowUpCount = 5

// IntentConfig 意图识别配置（模式即配置，不写死在控制流中）
type IntentConfig struct {
	FollowUpVerbs []string `yaml:"follow_up_verbs" json:"follow_up_verbs"`
	FollowUpNouns []string `yaml:"follow_up_nouns" json:"follow_up_nouns"`
	MapKeywords   []string `yaml:"map_keywords" json:"map_keywords"`
	DefaultCount  int      `yaml:"default_count" json:"default_count"`
}

// DefaultIntentConfig 默认意图配置
func DefaultIntentConfig() IntentConfig {
	return IntentConfig{
		FollowUpVerbs: []string{"top", "show", "give"},
		FollowUpNouns: []string{"record", "row", "shipment", "entry"},
		MapKeywords:   []string{"map", "plot"},
		DefaultCount:  DefaultFollowUpCount,
	}
}

// FollowUp 追问识别结果
type FollowUp struct {
	Count         int  // 请求条数
	CountExplicit bool // 查询中是否显式给出数量
}

// CanonicalQuery 无上下文时改写的规范查询
func (f FollowUp) CanonicalQuery() string {
	return fmt.Sprintf("show top %d records", f.Count)
}

// Intent 查询中相互独立的两个意图标记
type Intent struct {
	FollowUp     *FollowUp // 非 nil 表示请求展示记录
	MapRequested bool
}

type compiledIntent struct {
	verbs        *regexp.Regexp
	nouns        *regexp.Regexp
	topCount     *regexp.Regexp
	count        *regexp.Regexp
	mapKeywords  []string
	defaultCount int
}

// IntentDetector 基于配置的意图识别器，可热更新
type IntentDetector struct {
	current atomic.Pointer[compiledIntent]
}

// NewIntentDetector 创建意图识别器
func NewIntentDetector(cfg IntentConfig) (*IntentDetector, error) {
	d := &IntentDetector{}
	if err := d.Update(cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// MustIntentDetector 使用默认配置创建识别器
func MustIntentDetector() *IntentDetector {
	d, err := NewIntentDetector(DefaultIntentConfig())
	if err != nil {
		panic(err)
	}
	return d
}

// Update 替换识别模式
func (d *IntentDetector) Update(cfg IntentConfig) error {
	if len(cfg.FollowUpVerbs) == 0 || len(cfg.FollowUpNouns) == 0 {
		return fmt.Errorf("follow-up verbs and nouns cannot be empty")
	}
	if cfg.DefaultCount < 0 {
		return fmt.Errorf("default count must not be negative: %d", cfg.DefaultCount)
	}
	defaultCount := cfg.DefaultCount
	if defaultCount == 0 {
		defaultCount = DefaultFollowUpCount
	}

	verbs, err := wordPattern(cfg.FollowUpVerbs, false)
	if err != nil {
		return fmt.Errorf("invalid follow-up verbs: %w", err)
	}
	nouns, err := wordPattern(cfg.FollowUpNouns, true)
	if err != nil {
		return fmt.Errorf("invalid follow-up nouns: %w", err)
	}

	mapKeywords := make([]string, 0, len(cfg.MapKeywords))
	for _, kw := range cfg.MapKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
			mapKeywords = append(mapKeywords, kw)
		}
	}

	d.current.Store(&compiledIntent{
		verbs:        verbs,
		nouns:        nouns,
		topCount:     regexp.MustCompile(`\btop\s*(\d+)\b`),
		count:        regexp.MustCompile(`\b(\d+)\b`),
		mapKeywords:  mapKeywords,
		defaultCount: defaultCount,
	})
	return nil
}

// Detect 识别查询中的全部意图
func (d *IntentDetector) Detect(query string) Intent {
	followUp, ok := d.DetectFollowUp(query)
	intent := Intent{MapRequested: d.MapRequested(query)}
	if ok {
		intent.FollowUp = &followUp
	}
	return intent
}

// DetectFollowUp 识别"展示前 N 条记录"类追问
// 动词与名词宽松共现即可，不要求相邻
func (d *IntentDetector) DetectFollowUp(query string) (FollowUp, bool) {
	c := d.current.Load()
	lower := strings.ToLower(query)
	if !c.verbs.MatchString(lower) || !c.nouns.MatchString(lower) {
		return FollowUp{}, false
	}

	count, explicit := c.requestedCount(lower)
	return FollowUp{Count: count, CountExplicit: explicit}, true
}

// RequestedCount 优先取 "top N"（允许 top3 连写），其次取第一个独立数字，缺失时返回默认条数
func (d *IntentDetector) RequestedCount(query string) (int, bool) {
	return d.current.Load().requestedCount(strings.ToLower(query))
}

func (c *compiledIntent) requestedCount(lower string) (int, bool) {
	for _, re := range []*regexp.Regexp{c.topCount, c.count} {
		if m := re.FindStringSubmatch(lower); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return n, true
			}
		}
	}
	return c.defaultCount, false
}

// MapRequested 查询文本是否请求地图（大小写不敏感的子串匹配）
func (d *IntentDetector) MapRequested(query string) bool {
	c := d.current.Load()
	lower := strings.ToLower(query)
	for _, kw := range c.mapKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// wordPattern 将词表编译为整词匹配的正则
func wordPattern(words []string, plural bool) (*regexp.Regexp, error) {
	alternatives := make([]string, 0, len(words)*3)
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		alternatives = append(alternatives, regexp.QuoteMeta(w))
		if plural {
			alternatives = append(alternatives, regexp.QuoteMeta(w+"s"))
			if strings.HasSuffix(w, "y") && len(w) > 1 {
				alternatives = append(alternatives, regexp.QuoteMeta(w[:len(w)-1]+"ies"))
			}
		}
	}
	if len(alternatives) == 0 {
		return nil, fmt.Errorf("no usable words")
	}
	return regexp.Compile(`\b(?:` + strings.Join(alternatives, "|") + `)\b`)
}
