package query

import (
	"context"

	"github.com/stretchr/testify/mock"

	appSpatial "github.com/logisense/backend/internal/application/spatial"
	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// MockClassifier 模拟 Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, query string) (domainQuery.Category, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(domainQuery.Category), args.Error(1)
}

// MockRetriever 模拟 Retriever
type MockRetriever struct {
	mock.Mock
}

func (m *MockRetriever) Retrieve(ctx context.Context, query string, topK int) ([]domainQuery.RetrievedDocument, error) {
	args := m.Called(ctx, query, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainQuery.RetrievedDocument), args.Error(1)
}

// MockSynthesizer 模拟 Synthesizer
type MockSynthesizer struct {
	mock.Mock
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, query string, docs []domainQuery.RetrievedDocument) (string, error) {
	args := m.Called(ctx, query, docs)
	return args.String(0), args.Error(1)
}

// MockCompleter 模拟 LLM
type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

// MockEmbedder 模拟 QueryEmbedder
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockSearcher 模拟 VectorSearcher
type MockSearcher struct {
	mock.Mock
}

func (m *MockSearcher) Search(ctx context.Context, vector []float32, topK int) ([]domainQuery.RetrievedDocument, error) {
	args := m.Called(ctx, vector, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domainQuery.RetrievedDocument), args.Error(1)
}

// MockPlotter 模拟 MapPlotter
type MockPlotter struct {
	mock.Mock
}

func (m *MockPlotter) Plot(ctx context.Context, name string, summaries []string) (appSpatial.Artifact, bool) {
	args := m.Called(ctx, name, summaries)
	return args.Get(0).(appSpatial.Artifact), args.Bool(1)
}
