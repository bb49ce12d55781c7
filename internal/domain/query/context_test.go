package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversationContext_DefaultsEmpty(t *testing.T) {
	c := NewConversationContext()

	snapshot := c.Load()
	assert.Equal(t, "", snapshot.LastQuery)
	assert.Empty(t, snapshot.LastDocuments)
	assert.False(t, c.HasDocuments())
}

func TestConversationContext_SaveOverwrites(t *testing.T) {
	c := NewConversationContext()
	first := []RetrievedDocument{{Summary: "a"}, {Summary: "b"}}
	second := []RetrievedDocument{{Summary: "c"}}

	c.Save("first", first)
	c.Save("second", second)

	snapshot := c.Load()
	assert.Equal(t, "second", snapshot.LastQuery)
	assert.Equal(t, second, snapshot.LastDocuments)
}

func TestConversationContext_LoadIsDetached(t *testing.T) {
	c := NewConversationContext()
	docs := []RetrievedDocument{{Summary: "a"}}
	c.Save("q", docs)

	// 修改入参与快照都不影响内部状态
	docs[0].Summary = "mutated"
	snapshot := c.Load()
	snapshot.LastDocuments[0].Summary = "mutated again"

	assert.Equal(t, "a", c.Load().LastDocuments[0].Summary)
}

func TestConversationContext_SaveEmptyDocuments(t *testing.T) {
	c := NewConversationContext()
	c.Save("q", []RetrievedDocument{{Summary: "a"}})
	c.Save("nothing found", nil)

	snapshot := c.Load()
	assert.Equal(t, "nothing found", snapshot.LastQuery)
	assert.Empty(t, snapshot.LastDocuments)
	assert.False(t, c.HasDocuments())
}

func TestRestoreConversationContext(t *testing.T) {
	snapshot := ContextSnapshot{
		LastQuery:     "delays",
		LastDocuments: []RetrievedDocument{{Summary: "s", Record: Record{"id": 1}}},
	}

	c := RestoreConversationContext(snapshot)
	assert.Equal(t, snapshot, c.Load())
}
