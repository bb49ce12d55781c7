package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/log"
)

const classifierPrompt = `
Classify the logistics query into one of the following categories:
%s

Query: %s

Category:
`

// LLMClassifier 使用 LLM 为查询打分类标签
type LLMClassifier struct {
	llm    Completer
	logger *slog.Logger
}

// NewLLMClassifier 创建分类器
func NewLLMClassifier(llm Completer) *LLMClassifier {
	return &LLMClassifier{
		llm:    llm,
		logger: log.NewModuleLogger("query", "classifier"),
	}
}

// Classify 返回大写标签，集合外的标签原样透传
func (c *LLMClassifier) Classify(ctx context.Context, query string) (domainQuery.Category, error) {
	out, err := c.llm.Complete(ctx, buildClassifierPrompt(query))
	if err != nil {
		return "", asUpstream("llm", err)
	}

	category := domainQuery.NormalizeCategory(out)
	if category == "" {
		return "", fmt.Errorf("classifier returned an empty label")
	}
	if !category.IsKnown() {
		log.FromContext(ctx, c.logger).Debug("Classifier returned label outside the known set",
			"label", string(category),
		)
	}
	return category, nil
}

func buildClassifierPrompt(query string) string {
	labels := make([]string, 0, len(domainQuery.KnownCategories))
	for _, category := range domainQuery.KnownCategories {
		labels = append(labels, string(category))
	}
	return fmt.Sprintf(classifierPrompt, strings.Join(labels, ", "), query)
}
