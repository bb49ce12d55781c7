package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// SessionRepository 基于 SQLite 的会话上下文仓储
// 进程重启后上下文仍可用（CLI 的 records 子命令依赖于此）
type SessionRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewSessionRepository 创建 SQLite 会话仓储
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db, now: time.Now}
}

// Load 读取会话上下文，不存在时返回 (nil, nil)
func (r *SessionRepository) Load(ctx context.Context, sessionID string) (*domainQuery.ContextSnapshot, error) {
	query := `SELECT last_query, last_documents FROM conversation_contexts WHERE session_id = ?`

	var lastQuery, docsJSON string
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(&lastQuery, &docsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", sessionID, err)
	}

	var docs []domainQuery.RetrievedDocument
	if err := DecodeJSON([]byte(docsJSON), &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents of session %s: %w", sessionID, err)
	}

	return &domainQuery.ContextSnapshot{
		LastQuery:     lastQuery,
		LastDocuments: docs,
	}, nil
}

// Save 整体覆盖会话上下文
func (r *SessionRepository) Save(ctx context.Context, sessionID string, snapshot domainQuery.ContextSnapshot) error {
	docs := snapshot.LastDocuments
	if docs == nil {
		docs = []domainQuery.RetrievedDocument{}
	}
	docsJSON, err := json.Marshal(docs)
	if err != nil {
		return fmt.Errorf("failed to encode documents: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO conversation_contexts (session_id, last_query, last_documents, updated_at)
		VALUES (?, ?, ?, ?)`

	if _, err := r.db.ExecContext(ctx, query, sessionID, snapshot.LastQuery, string(docsJSON), r.now().UnixMilli()); err != nil {
		return fmt.Errorf("failed to save session %s: %w", sessionID, err)
	}
	return nil
}

// Delete 删除会话上下文
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM conversation_contexts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}

// PurgeBefore 清理早于 cutoff 未更新的会话，返回删除数量
func (r *SessionRepository) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM conversation_contexts WHERE updated_at < ?`, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	return result.RowsAffected()
}
