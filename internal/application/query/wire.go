package query

import "github.com/google/wire"

// ProviderSet 查询应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewLLMClassifier,
	wire.Bind(new(Classifier), new(*LLMClassifier)),
	NewLLMSynthesizer,
	wire.Bind(new(Synthesizer), new(*LLMSynthesizer)),
	NewVectorRetriever,
	wire.Bind(new(Retriever), new(*VectorRetriever)),
	NewPassthroughFormatter,
	wire.Bind(new(Formatter), new(*PassthroughFormatter)),
	NewOrchestrator,
	wire.Bind(new(Runner), new(*Orchestrator)),
	NewAssistantService,
	// 注意：Completer / QueryEmbedder / VectorSearcher / MapPlotter 绑定在顶层 wire.go 中处理
)
