package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/config"
	"github.com/logisense/backend/internal/infrastructure/log"
)

// Result 单次运行结果
type Result struct {
	Answer         string
	Records        []domainQuery.Record
	Documents      []domainQuery.RetrievedDocument // 与 Records 一一对应，供地图绘制使用
	MapRequested   bool
	FollowUp       bool // 是否走了追问短路
	Category       domainQuery.Category
	EffectiveQuery string
}

// Orchestrator 查询流水线：classify -> retrieve -> synthesize -> format
// 会话上下文由调用方显式传入，仅在主查询成功后写入
type Orchestrator struct {
	classifier  Classifier
	retriever   Retriever
	synthesizer Synthesizer
	formatter   Formatter
	intents     *domainQuery.IntentDetector
	cfg         config.PipelineConfig
	logger      *slog.Logger
}

// NewOrchestrator 创建编排器
func NewOrchestrator(
	classifier Classifier,
	retriever Retriever,
	synthesizer Synthesizer,
	formatter Formatter,
	intents *domainQuery.IntentDetector,
	cfg *config.PipelineConfig,
) *Orchestrator {
	return &Orchestrator{
		classifier:  classifier,
		retriever:   retriever,
		synthesizer: synthesizer,
		formatter:   formatter,
		intents:     intents,
		cfg:         *cfg,
		logger:      log.NewModuleLogger("query", "orchestrator"),
	}
}

// Run 执行一轮查询
func (o *Orchestrator) Run(ctx context.Context, query string, convo *domainQuery.ConversationContext) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domainQuery.ErrEmptyQuery
	}
	if convo == nil {
		return nil, errors.New("conversation context is required")
	}
	logger := log.FromContext(ctx, o.logger)

	// 两个意图标记都取自用户原始输入，改写后的规范查询不参与地图判断
	intent := o.intents.Detect(query)
	effective := query
	if intent.FollowUp != nil {
		snapshot := convo.Load()
		if len(snapshot.LastDocuments) > 0 {
			return o.followUp(query, intent, snapshot, logger), nil
		}
		effective = intent.FollowUp.CanonicalQuery()
		logger.Info("Follow-up without prior context, running full pipeline",
			"query", query,
			"effective_query", effective,
		)
	}

	state := domainQuery.NewPipelineState(effective)
	if err := o.runStages(ctx, state, logger); err != nil {
		return nil, err
	}

	// 只有全部阶段成功后才写入上下文（保存未截断的文档列表）
	convo.Save(state.Query, state.Documents)

	return &Result{
		Answer:         state.FormattedResponse,
		Records:        domainQuery.Records(state.Documents),
		Documents:      state.Documents,
		MapRequested:   intent.MapRequested,
		Category:       state.Category,
		EffectiveQuery: state.Query,
	}, nil
}

// followUp 追问短路：复用上一轮文档，不触发分类/检索/生成
func (o *Orchestrator) followUp(query string, intent domainQuery.Intent, snapshot domainQuery.ContextSnapshot, logger *slog.Logger) *Result {
	f := intent.FollowUp
	docs := domainQuery.Prefix(snapshot.LastDocuments, f.Count)
	records := domainQuery.Records(docs)

	logger.Info("Answering follow-up from conversation context",
		"requested", f.Count,
		"returned", len(records),
		"last_query", snapshot.LastQuery,
	)

	return &Result{
		Answer:         RecordTable(records),
		Records:        records,
		Documents:      docs,
		MapRequested:   intent.MapRequested,
		FollowUp:       true,
		EffectiveQuery: query,
	}
}

func (o *Orchestrator) runStages(ctx context.Context, state *domainQuery.PipelineState, logger *slog.Logger) error {
	start := time.Now()

	// 1. classify
	category, err := withTimeout(ctx, o.cfg.ClassifyTimeout, func(ctx context.Context) (domainQuery.Category, error) {
		return o.classifier.Classify(ctx, state.Query)
	})
	if err != nil {
		err = asUpstream("classifier", err)
		if o.cfg.ClassifierFailure == config.ClassifierFailureFail {
			return &domainQuery.StageError{
				Stage: domainQuery.StageClassify,
				Err:   fmt.Errorf("%w: %w", domainQuery.ErrClassificationFailed, err),
			}
		}
		logger.Warn("Classification failed, continuing with UNKNOWN category", "error", err)
		category = domainQuery.CategoryUnknown
	}
	state.Category = category
	state.MarkCompleted(domainQuery.StageClassify)

	// 2. retrieve
	docs, err := withTimeout(ctx, o.cfg.RetrieveTimeout, func(ctx context.Context) ([]domainQuery.RetrievedDocument, error) {
		return o.retriever.Retrieve(ctx, state.Query, domainQuery.MaxGroundingDocuments)
	})
	if err != nil {
		return &domainQuery.StageError{Stage: domainQuery.StageRetrieve, Err: asUpstream("retriever", err)}
	}
	if docs == nil {
		docs = []domainQuery.RetrievedDocument{}
	}
	state.Documents = docs
	state.MarkCompleted(domainQuery.StageRetrieve)

	// 3. synthesize
	grounding := domainQuery.Prefix(state.Documents, domainQuery.MaxGroundingDocuments)
	text, err := withTimeout(ctx, o.cfg.SynthesizeTimeout, func(ctx context.Context) (string, error) {
		return o.synthesizer.Synthesize(ctx, state.Query, grounding)
	})
	if err != nil {
		return &domainQuery.StageError{Stage: domainQuery.StageSynthesize, Err: asUpstream("synthesizer", err)}
	}
	state.SynthesizedText = text
	state.MarkCompleted(domainQuery.StageSynthesize)

	// 4. format
	formatted, err := o.formatter.Format(ctx, state.SynthesizedText)
	if err != nil {
		return &domainQuery.StageError{Stage: domainQuery.StageFormat, Err: err}
	}
	state.FormattedResponse = formatted
	state.MarkCompleted(domainQuery.StageFormat)

	logger.Info("Pipeline completed",
		"category", string(state.Category),
		"documents", len(state.Documents),
		"duration", time.Since(start),
	)
	return nil
}

// withTimeout 为单个阶段设置超时，timeout <= 0 表示不限制
func withTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
