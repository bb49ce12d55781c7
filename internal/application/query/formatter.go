package query

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// NoRecordsAnswer 追问结果为空时的中性回答
const NoRecordsAnswer = "No records to display."

// PassthroughFormatter 原样返回生成结果
type PassthroughFormatter struct{}

// NewPassthroughFormatter 创建格式化器
func NewPassthroughFormatter() *PassthroughFormatter {
	return &PassthroughFormatter{}
}

// Format 原样返回
func (PassthroughFormatter) Format(_ context.Context, text string) (string, error) {
	return text, nil
}

// RecordTable 将记录渲染为 Markdown 表格，列为所有记录字段的并集（按字母序）
func RecordTable(records []domainQuery.Record) string {
	if len(records) == 0 {
		return NoRecordsAnswer
	}

	columnSet := make(map[string]struct{})
	for _, record := range records {
		for key := range record {
			columnSet[key] = struct{}{}
		}
	}
	columns := make([]string, 0, len(columnSet))
	for key := range columnSet {
		columns = append(columns, key)
	}
	sort.Strings(columns)

	var b strings.Builder
	fmt.Fprintf(&b, "Top %d Supporting Records:\n\n", len(records))
	if len(columns) == 0 {
		for i := range records {
			fmt.Fprintf(&b, "%d. (record unavailable)\n", i+1)
		}
		return strings.TrimRight(b.String(), "\n")
	}

	b.WriteString("| # | " + strings.Join(columns, " | ") + " |\n")
	b.WriteString("|---|" + strings.Repeat("---|", len(columns)) + "\n")
	for i, record := range records {
		cells := make([]string, len(columns))
		for j, column := range columns {
			cells[j] = formatCell(record[column])
		}
		fmt.Fprintf(&b, "| %d | %s |\n", i+1, strings.Join(cells, " | "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatCell(value any) string {
	var s string
	switch v := value.(type) {
	case nil:
		return ""
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		s = fmt.Sprint(v)
	}
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}
