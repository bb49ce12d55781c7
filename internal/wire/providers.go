package wire

import (
	"github.com/google/wire"

	appQuery "github.com/logisense/backend/internal/application/query"
	appSpatial "github.com/logisense/backend/internal/application/spatial"
	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/config"
	"github.com/logisense/backend/internal/infrastructure/embedding"
	"github.com/logisense/backend/internal/infrastructure/llm"
	"github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/infrastructure/render"
	"github.com/logisense/backend/internal/infrastructure/tokenizer"
	"github.com/logisense/backend/internal/infrastructure/vector"
	"github.com/logisense/backend/internal/interfaces/http/handler"
)

// clientSet 外部服务客户端及其到应用层接口的绑定
var clientSet = wire.NewSet(
	provideLLMClient,
	wire.Bind(new(appQuery.Completer), new(*llm.Client)),
	provideEmbeddingClient,
	wire.Bind(new(appQuery.QueryEmbedder), new(*embedding.Client)),
	provideQdrantStore,
	wire.Bind(new(appQuery.VectorSearcher), new(*vector.QdrantStore)),
	provideTokenCounter,
	provideIntentDetector,
	provideDependencies,
	render.NewRenderer,
	wire.Bind(new(appQuery.MapPlotter), new(*appSpatial.Plotter)),
)

func provideLLMClient(cfg *config.Config) *llm.Client {
	return llm.NewClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.Temperature, cfg.LLM.Timeout)
}

func provideEmbeddingClient(cfg *config.Config) *embedding.Client {
	return embedding.NewClient(cfg.Embedding.URL, cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.Timeout)
}

func provideQdrantStore(cfg *config.Config) (*vector.QdrantStore, func(), error) {
	store, err := vector.NewQdrantStore(&cfg.Qdrant)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

// provideTokenCounter 编码文件加载失败时不统计 Token
func provideTokenCounter() appQuery.TokenCounter {
	estimator, err := tokenizer.GetEstimator()
	if err != nil {
		log.NewModuleLogger("wire", "providers").Warn("Token estimator unavailable", "error", err)
		return nil
	}
	return estimator
}

func provideIntentDetector(cfg *config.Config) (*domainQuery.IntentDetector, error) {
	return domainQuery.NewIntentDetector(cfg.Intent)
}

// provideDependencies 就绪检查覆盖检索与生成用到的三个上游
func provideDependencies(llmClient *llm.Client, embedder *embedding.Client, store *vector.QdrantStore) []handler.Dependency {
	return []handler.Dependency{
		{Name: "llm", Target: llmClient.Model(), Check: llmClient.TestConnection},
		{Name: "embedding", Target: embedder.Model(), Check: embedder.TestConnection},
		{Name: "qdrant", Target: store.Collection(), Check: store.Ping},
	}
}
