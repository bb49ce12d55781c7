package vector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qdrant/go-client/qdrant"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/config"
	"github.com/logisense/backend/internal/infrastructure/log"
)

// Payload 字段名
const (
	PayloadSummary = "summary"
	PayloadRecord  = "record"
)

// QdrantStore 基于 Qdrant 的摘要向量检索
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	logger     *slog.Logger
}

// NewQdrantStore 连接 Qdrant（gRPC）
func NewQdrantStore(cfg *config.QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: cfg.Collection,
		logger:     log.NewModuleLogger("vector", "qdrant"),
	}, nil
}

// Collection 集合名
func (s *QdrantStore) Collection() string {
	return s.collection
}

// Ping 健康检查
func (s *QdrantStore) Ping(ctx context.Context) error {
	if _, err := s.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("qdrant health check failed: %w", err)
	}
	return nil
}

// Close 关闭连接
func (s *QdrantStore) Close() error {
	return s.client.Close()
}

// Search 按相似度降序返回至多 topK 条文档
// 集合不存在或为空时返回空列表，不视为错误
func (s *QdrantStore) Search(ctx context.Context, vector []float32, topK int) ([]domainQuery.RetrievedDocument, error) {
	if topK <= 0 {
		return []domainQuery.RetrievedDocument{}, nil
	}

	exists, err := s.client.CollectionExists(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection %s: %w", s.collection, err)
	}
	if !exists {
		s.logger.Warn("Collection does not exist, returning no documents",
			"collection", s.collection,
		)
		return []domainQuery.RetrievedDocument{}, nil
	}

	limit := uint64(topK)
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query qdrant: %w", err)
	}

	docs := make([]domainQuery.RetrievedDocument, 0, len(hits))
	for _, hit := range hits {
		doc, ok := DocumentFromPayload(hit.GetPayload())
		if !ok {
			s.logger.Warn("Skipping point without summary",
				"collection", s.collection,
				"point_id", hit.GetId().String(),
			)
			continue
		}
		docs = append(docs, doc)
	}

	s.logger.Debug("Qdrant search completed",
		"collection", s.collection,
		"hits", len(hits),
		"documents", len(docs),
	)
	return docs, nil
}

// DocumentFromPayload 将点的 payload 转换为检索文档
// 缺少 record 时记录为空，不从摘要推断字段
func DocumentFromPayload(payload map[string]*qdrant.Value) (domainQuery.RetrievedDocument, bool) {
	summary := payload[PayloadSummary].GetStringValue()
	if summary == "" {
		return domainQuery.RetrievedDocument{}, false
	}

	record := domainQuery.Record{}
	if fields := payload[PayloadRecord].GetStructValue().GetFields(); fields != nil {
		for key, value := range fields {
			record[key] = valueToAny(value)
		}
	}

	return domainQuery.RetrievedDocument{Summary: summary, Record: record}, true
}

// valueToAny 递归转换 qdrant.Value
func valueToAny(val *qdrant.Value) any {
	if val == nil {
		return nil
	}
	switch kind := val.GetKind().(type) {
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_StructValue:
		out := make(map[string]any, len(kind.StructValue.GetFields()))
		for key, field := range kind.StructValue.GetFields() {
			out[key] = valueToAny(field)
		}
		return out
	case *qdrant.Value_ListValue:
		out := make([]any, 0, len(kind.ListValue.GetValues()))
		for _, item := range kind.ListValue.GetValues() {
			out = append(out, valueToAny(item))
		}
		return out
	default:
		return nil
	}
}
