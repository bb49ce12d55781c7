package query

import "sync"

// ConversationContext 会话短期记忆：最近一次主查询及其检索结果
// 只有 Orchestrator 在主查询成功后写入；仅在新查询开始时读取
type ConversationContext struct {
	mu            sync.RWMutex
	lastQuery     string
	lastDocuments []RetrievedDocument
}

// ContextSnapshot ConversationContext 的只读快照
type ContextSnapshot struct {
	LastQuery     string              `json:"last_query"`
	LastDocuments []RetrievedDocument `json:"last_documents"`
}

// NewConversationContext 创建空上下文
func NewConversationContext() *ConversationContext {
	return &ConversationContext{}
}

// RestoreConversationContext 从快照恢复上下文
func RestoreConversationContext(snapshot ContextSnapshot) *ConversationContext {
	c := &ConversationContext{}
	c.Save(snapshot.LastQuery, snapshot.LastDocuments)
	return c
}

// Save 无条件覆盖最近查询与文档（后写者胜，不保留历史）
func (c *ConversationContext) Save(query string, documents []RetrievedDocument) {
	docs := make([]RetrievedDocument, len(documents))
	copy(docs, documents)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastQuery = query
	c.lastDocuments = docs
}

// Load 纯读取，从未保存时返回空默认值
func (c *ConversationContext) Load() ContextSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	docs := make([]RetrievedDocument, len(c.lastDocuments))
	copy(docs, c.lastDocuments)
	return ContextSnapshot{
		LastQuery:     c.lastQuery,
		LastDocuments: docs,
	}
}

// HasDocuments 是否持有上一轮文档
func (c *ConversationContext) HasDocuments() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.lastDocuments) > 0
}
