package query

import "context"

// SessionRepository 会话上下文存储接口
// 找不到会话时返回 (nil, nil)
type SessionRepository interface {
	Load(ctx context.Context, sessionID string) (*ContextSnapshot, error)
	Save(ctx context.Context, sessionID string, snapshot ContextSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}

// DefaultSessionID 未指定会话时使用的会话 ID（单会话部署）
const DefaultSessionID = "default"
