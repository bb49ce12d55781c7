package query

import (
	"context"
	"fmt"

	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// VectorRetriever 查询向量化后在向量库中检索摘要
type VectorRetriever struct {
	embedder QueryEmbedder
	searcher VectorSearcher
}

// NewVectorRetriever 创建检索器
func NewVectorRetriever(embedder QueryEmbedder, searcher VectorSearcher) *VectorRetriever {
	return &VectorRetriever{embedder: embedder, searcher: searcher}
}

// Retrieve 返回至多 topK 条文档
func (r *VectorRetriever) Retrieve(ctx context.Context, query string, topK int) ([]domainQuery.RetrievedDocument, error) {
	if topK <= 0 {
		return []domainQuery.RetrievedDocument{}, nil
	}

	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, asUpstream("embedding", fmt.Errorf("failed to embed query: %w", err))
	}

	docs, err := r.searcher.Search(ctx, vector, topK)
	if err != nil {
		return nil, asUpstream("vector store", err)
	}
	if docs == nil {
		docs = []domainQuery.RetrievedDocument{}
	}
	if len(docs) > topK {
		docs = docs[:topK]
	}
	return docs, nil
}
