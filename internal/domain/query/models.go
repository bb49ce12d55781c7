package query

import "strings"

// MaxGroundingDocuments 检索条数与生成时引用摘要的共同上限
const MaxGroundingDocuments = 5

// Category 查询意图分类（仅作参考，不影响流水线分支）
type Category string

// 分类常量
const (
	CategoryDelay     Category = "DELAY"
	CategoryFatigue   Category = "FATIGUE"
	CategoryFuel      Category = "FUEL"
	CategoryWeather   Category = "WEATHER"
	CategoryRisk      Category = "RISK"
	CategoryInventory Category = "INVENTORY"
	CategoryGeneral   Category = "GENERAL"

	// CategoryUnknown 分类失败时的降级标记
	CategoryUnknown Category = "UNKNOWN"
)

// KnownCategories 固定分类集合
var KnownCategories = []Category{
	CategoryDelay,
	CategoryFatigue,
	CategoryFuel,
	CategoryWeather,
	CategoryRisk,
	CategoryInventory,
	CategoryGeneral,
}

// NormalizeCategory 规范化分类标签（去空白并转大写）
// 集合外的标签原样透传，调用方不能假设分类是封闭的
func NormalizeCategory(label string) Category {
	return Category(strings.ToUpper(strings.TrimSpace(label)))
}

// IsKnown 是否属于固定分类集合
func (c Category) IsKnown() bool {
	for _, known := range KnownCategories {
		if c == known {
			return true
		}
	}
	return false
}

// Record 原始结构化记录（字段名 -> 值）
type Record map[string]any

// Clone 浅拷贝记录
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// RetrievedDocument 检索结果：摘要 + 对应的原始记录
// Summary 与 Record 必须来自同一条入库实体
type RetrievedDocument struct {
	Summary string `json:"summary"`
	Record  Record `json:"record"`
}

// RecordOrEmpty 返回记录，缺失时返回空记录（不伪造字段）
func (d RetrievedDocument) RecordOrEmpty() Record {
	if d.Record == nil {
		return Record{}
	}
	return d.Record
}

// Summaries 提取摘要列表
func Summaries(docs []RetrievedDocument) []string {
	out := make([]string, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.Summary)
	}
	return out
}

// Records 提取记录列表，缺失记录以空记录占位
func Records(docs []RetrievedDocument) []Record {
	out := make([]Record, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.RecordOrEmpty())
	}
	return out
}

// Prefix 返回前 n 个文档（n 超出长度时返回全部，n <= 0 返回空）
func Prefix(docs []RetrievedDocument, n int) []RetrievedDocument {
	if n <= 0 {
		return []RetrievedDocument{}
	}
	if n > len(docs) {
		n = len(docs)
	}
	out := make([]RetrievedDocument, n)
	copy(out, docs[:n])
	return out
}
