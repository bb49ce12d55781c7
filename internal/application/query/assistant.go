package query

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	appSpatial "github.com/logisense/backend/internal/application/spatial"
	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/log"
)

// Runner 单轮流水线
type Runner interface {
	Run(ctx context.Context, query string, convo *domainQuery.ConversationContext) (*Result, error)
}

// MapPlotter 地图绘制，失败只返回 false
type MapPlotter interface {
	Plot(ctx context.Context, name string, summaries []string) (appSpatial.Artifact, bool)
}

// Answer 对外返回的一轮回答
type Answer struct {
	SessionID    string               `json:"session_id"`
	Query        string               `json:"query"`
	Response     string               `json:"response"`
	TopRecords   []domainQuery.Record `json:"top_records"`
	MapURL       string               `json:"map_url,omitempty"`
	MapPath      string               `json:"-"`
	MapRequested bool                 `json:"map_requested"`
	Category     domainQuery.Category `json:"category,omitempty"`
	FollowUp     bool                 `json:"follow_up"`
}

// SessionSummary 会话上下文概要
type SessionSummary struct {
	SessionID     string `json:"session_id"`
	LastQuery     string `json:"last_query"`
	DocumentCount int    `json:"document_count"`
}

// AssistantService 会话级入口：加载上下文、串行执行、持久化、绘图隔离
type AssistantService struct {
	runner   Runner
	sessions domainQuery.SessionRepository
	intents  *domainQuery.IntentDetector
	plotter  MapPlotter
	locks    *sessionLocks
	logger   *slog.Logger
}

// NewAssistantService 创建服务，plotter 可为 nil
func NewAssistantService(
	runner Runner,
	sessions domainQuery.SessionRepository,
	intents *domainQuery.IntentDetector,
	plotter MapPlotter,
) *AssistantService {
	return &AssistantService{
		runner:   runner,
		sessions: sessions,
		intents:  intents,
		plotter:  plotter,
		locks:    newSessionLocks(),
		logger:   log.NewModuleLogger("query", "assistant"),
	}
}

// Ask 在会话中执行一轮查询
func (s *AssistantService) Ask(ctx context.Context, sessionID, query string) (*Answer, error) {
	sessionID = normalizeSessionID(sessionID)
	ctx = log.WithSessionID(ctx, sessionID)
	logger := log.FromContext(ctx, s.logger)

	unlock := s.locks.lock(sessionID)
	defer unlock()

	convo, err := s.loadContext(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	result, err := s.runner.Run(ctx, query, convo)
	if err != nil {
		if stage, ok := domainQuery.FailedStage(err); ok {
			logger.Error("Query failed", "stage", string(stage), "error", err)
		}
		return nil, err
	}

	if !result.FollowUp {
		if err := s.sessions.Save(ctx, sessionID, convo.Load()); err != nil {
			// 回答已生成，持久化失败只影响后续追问
			logger.Error("Failed to persist conversation context", "error", err)
		}
	}

	answer := &Answer{
		SessionID:    sessionID,
		Query:        result.EffectiveQuery,
		Response:     result.Answer,
		TopRecords:   result.Records,
		MapRequested: result.MapRequested,
		Category:     result.Category,
		FollowUp:     result.FollowUp,
	}
	if result.MapRequested {
		s.attachMap(ctx, sessionID, result.Documents, answer)
	}
	return answer, nil
}

// ShowRecords 独立追问模式：只读取已保存的上下文，没有上一轮结果时返回 ErrNoPriorContext
func (s *AssistantService) ShowRecords(ctx context.Context, sessionID, query string) (*Answer, error) {
	sessionID = normalizeSessionID(sessionID)
	ctx = log.WithSessionID(ctx, sessionID)

	unlock := s.locks.lock(sessionID)
	defer unlock()

	snapshot, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if snapshot == nil || len(snapshot.LastDocuments) == 0 {
		return nil, domainQuery.ErrNoPriorContext
	}

	intent := s.intents.Detect(query)
	count, _ := s.intents.RequestedCount(query)
	docs := domainQuery.Prefix(snapshot.LastDocuments, count)
	records := domainQuery.Records(docs)

	answer := &Answer{
		SessionID:    sessionID,
		Query:        strings.TrimSpace(query),
		Response:     RecordTable(records),
		TopRecords:   records,
		MapRequested: intent.MapRequested,
		FollowUp:     true,
	}
	if answer.MapRequested {
		s.attachMap(ctx, sessionID, docs, answer)
	}
	return answer, nil
}

// Session 读取会话概要，不存在时返回空概要
func (s *AssistantService) Session(ctx context.Context, sessionID string) (*SessionSummary, error) {
	sessionID = normalizeSessionID(sessionID)
	snapshot, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	summary := &SessionSummary{SessionID: sessionID}
	if snapshot != nil {
		summary.LastQuery = snapshot.LastQuery
		summary.DocumentCount = len(snapshot.LastDocuments)
	}
	return summary, nil
}

// Reset 清空会话上下文
func (s *AssistantService) Reset(ctx context.Context, sessionID string) error {
	sessionID = normalizeSessionID(sessionID)

	unlock := s.locks.lock(sessionID)
	defer unlock()

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

func (s *AssistantService) loadContext(ctx context.Context, sessionID string) (*domainQuery.ConversationContext, error) {
	snapshot, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if snapshot == nil {
		return domainQuery.NewConversationContext(), nil
	}
	return domainQuery.RestoreConversationContext(*snapshot), nil
}

// attachMap 绘图失败（含 panic）不影响已生成的回答
func (s *AssistantService) attachMap(ctx context.Context, sessionID string, docs []domainQuery.RetrievedDocument, answer *Answer) {
	if s.plotter == nil {
		return
	}
	logger := log.FromContext(ctx, s.logger)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Map plotting panicked", "panic", r)
		}
	}()

	artifact, ok := s.plotter.Plot(ctx, sessionID, domainQuery.Summaries(docs))
	if !ok {
		return
	}
	answer.MapURL = artifact.URL
	answer.MapPath = artifact.Path
}

func normalizeSessionID(sessionID string) string {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domainQuery.DefaultSessionID
	}
	return sessionID
}
