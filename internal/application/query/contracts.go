package query

import (
	"context"

	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// Classifier 查询分类能力
type Classifier interface {
	Classify(ctx context.Context, query string) (domainQuery.Category, error)
}

// Retriever 语义检索能力：按相似度降序返回至多 topK 条文档，空索引返回空列表
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]domainQuery.RetrievedDocument, error)
}

// Synthesizer 基于摘要生成回答，文档数不得超过 MaxGroundingDocuments
type Synthesizer interface {
	Synthesize(ctx context.Context, query string, docs []domainQuery.RetrievedDocument) (string, error)
}

// Formatter 最终回答格式化
type Formatter interface {
	Format(ctx context.Context, text string) (string, error)
}

// Completer 单轮文本生成（LLM）
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// QueryEmbedder 查询向量化
type QueryEmbedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// VectorSearcher 向量近邻检索
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, topK int) ([]domainQuery.RetrievedDocument, error)
}

// TokenCounter prompt Token 估算
type TokenCounter interface {
	CountTokens(text string) int
}
