package session

import (
	"context"
	"sync"
	"time"

	domainQuery "github.com/logisense/backend/internal/domain/query"
)

type memoryEntry struct {
	snapshot  domainQuery.ContextSnapshot
	updatedAt time.Time
}

// MemoryRepository 进程内会话仓储，重启后上下文丢失
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryRepository 创建内存仓储，ttl <= 0 表示永不过期
func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Load 读取会话上下文，不存在或已过期时返回 (nil, nil)
func (r *MemoryRepository) Load(_ context.Context, sessionID string) (*domainQuery.ContextSnapshot, error) {
	r.mu.RLock()
	entry, ok := r.sessions[sessionID]
	r.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if r.expired(entry) {
		r.mu.Lock()
		// 释放读锁期间可能已被 Save 刷新
		if current, ok := r.sessions[sessionID]; ok && r.expired(current) {
			delete(r.sessions, sessionID)
		}
		r.mu.Unlock()
		return nil, nil
	}

	snapshot := copySnapshot(entry.snapshot)
	return &snapshot, nil
}

// Save 整体覆盖会话上下文
func (r *MemoryRepository) Save(_ context.Context, sessionID string, snapshot domainQuery.ContextSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = memoryEntry{
		snapshot:  copySnapshot(snapshot),
		updatedAt: r.now(),
	}
	return nil
}

// Delete 删除会话上下文
func (r *MemoryRepository) Delete(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}

// Sweep 删除所有已过期的会话，返回删除数量
func (r *MemoryRepository) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.sessions {
		if r.expired(entry) {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Len 当前会话数
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *MemoryRepository) expired(entry memoryEntry) bool {
	return r.ttl > 0 && r.now().Sub(entry.updatedAt) > r.ttl
}

func copySnapshot(s domainQuery.ContextSnapshot) domainQuery.ContextSnapshot {
	docs := make([]domainQuery.RetrievedDocument, len(s.LastDocuments))
	for i, doc := range s.LastDocuments {
		docs[i] = doc
		if doc.Record != nil {
			docs[i].Record = doc.Record.Clone()
		}
	}
	return domainQuery.ContextSnapshot{LastQuery: s.LastQuery, LastDocuments: docs}
}
