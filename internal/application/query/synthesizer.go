package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/log"
)

// NoRelevantDataAnswer 检索结果为空时的中性回答
const NoRelevantDataAnswer = "No relevant data was found in the logistics records for this query."

const reasoningPrompt = `
You are a reasoning expert analyzing logistics documents.
Given the user query and the following summaries, generate a brief, concise answer using the most relevant information.

User Query: %s

Relevant Document Summaries:
%s

Your Answer:
`

// LLMSynthesizer 仅基于摘要文本生成回答，不读取原始记录字段
type LLMSynthesizer struct {
	llm    Completer
	tokens TokenCounter
	logger *slog.Logger
}

// NewLLMSynthesizer 创建生成器，tokens 可为 nil
func NewLLMSynthesizer(llm Completer, tokens TokenCounter) *LLMSynthesizer {
	return &LLMSynthesizer{
		llm:    llm,
		tokens: tokens,
		logger: log.NewModuleLogger("query", "synthesizer"),
	}
}

// Synthesize 生成去除首尾空白的回答
func (s *LLMSynthesizer) Synthesize(ctx context.Context, query string, docs []domainQuery.RetrievedDocument) (string, error) {
	if len(docs) > domainQuery.MaxGroundingDocuments {
		return "", fmt.Errorf("%w: got %d, limit %d", domainQuery.ErrTooManyDocuments, len(docs), domainQuery.MaxGroundingDocuments)
	}
	if len(docs) == 0 {
		return NoRelevantDataAnswer, nil
	}

	prompt := fmt.Sprintf(reasoningPrompt, query, strings.Join(domainQuery.Summaries(docs), "\n"))

	logger := log.FromContext(ctx, s.logger)
	if s.tokens != nil {
		logger.Debug("Synthesis prompt prepared",
			"documents", len(docs),
			"prompt_tokens", s.tokens.CountTokens(prompt),
		)
	}

	out, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", asUpstream("llm", err)
	}
	return strings.TrimSpace(out), nil
}
