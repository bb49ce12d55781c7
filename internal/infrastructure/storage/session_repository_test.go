package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// setupTestDB 创建临时测试数据库
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSessionRepository_LoadMissing(t *testing.T) {
	repo := NewSessionRepository(setupTestDB(t))

	snapshot, err := repo.Load(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestSessionRepository_SaveAndLoad(t *testing.T) {
	repo := NewSessionRepository(setupTestDB(t))
	ctx := context.Background()

	snapshot := domainQuery.ContextSnapshot{
		LastQuery: "late shipments in March",
		LastDocuments: []domainQuery.RetrievedDocument{
			{Summary: "s1", Record: domainQuery.Record{"shipment_id": "A1", "delay_probability": 0.8}},
			{Summary: "s2"},
		},
	}
	require.NoError(t, repo.Save(ctx, "session-1", snapshot))

	loaded, err := repo.Load(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "late shipments in March", loaded.LastQuery)
	require.Len(t, loaded.LastDocuments, 2)
	assert.Equal(t, "s1", loaded.LastDocuments[0].Summary)
	assert.Equal(t, "A1", loaded.LastDocuments[0].Record["shipment_id"])
	assert.Equal(t, json.Number("0.8"), loaded.LastDocuments[0].Record["delay_probability"])
	assert.Empty(t, loaded.LastDocuments[1].RecordOrEmpty())
}

func TestSessionRepository_PreservesIntegers(t *testing.T) {
	repo := NewSessionRepository(setupTestDB(t))
	ctx := context.Background()

	snapshot := domainQuery.ContextSnapshot{
		LastQuery: "top shipments",
		LastDocuments: []domainQuery.RetrievedDocument{
			{Summary: "s1", Record: domainQuery.Record{
				"shipment_id": int64(9007199254740993),
				"pallets":     int64(1234567),
			}},
		},
	}
	require.NoError(t, repo.Save(ctx, "ints", snapshot))

	loaded, err := repo.Load(ctx, "ints")
	require.NoError(t, err)
	require.NotNil(t, loaded)

	record := loaded.LastDocuments[0].Record
	assert.Equal(t, json.Number("9007199254740993"), record["shipment_id"])
	assert.Equal(t, json.Number("1234567"), record["pallets"])
}

func TestDecodeJSON_UsesNumber(t *testing.T) {
	var record domainQuery.Record
	require.NoError(t, DecodeJSON([]byte(`{"id": 42, "p": 0.25, "name": "A1"}`), &record))

	assert.Equal(t, json.Number("42"), record["id"])
	assert.Equal(t, json.Number("0.25"), record["p"])
	assert.Equal(t, "A1", record["name"])
}

func TestSessionRepository_SaveOverwrites(t *testing.T) {
	repo := NewSessionRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "s", domainQuery.ContextSnapshot{
		LastQuery:     "first",
		LastDocuments: []domainQuery.RetrievedDocument{{Summary: "a"}, {Summary: "b"}},
	}))
	require.NoError(t, repo.Save(ctx, "s", domainQuery.ContextSnapshot{LastQuery: "second"}))

	loaded, err := repo.Load(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, "second", loaded.LastQuery)
	assert.Empty(t, loaded.LastDocuments)
}

func TestSessionRepository_SessionsAreIsolated(t *testing.T) {
	repo := NewSessionRepository(setupTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, "a", domainQuery.ContextSnapshot{LastQuery: "query a"}))
	require.NoError(t, repo.Save(ctx, "b", domainQuery.ContextSnapshot{LastQuery: "query b"}))

	require.NoError(t, repo.Delete(ctx, "a"))

	gone, err := repo.Load(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, gone)

	kept, err := repo.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "query b", kept.LastQuery)
}

func TestSessionRepository_PurgeBefore(t *testing.T) {
	repo := NewSessionRepository(setupTestDB(t))
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }
	require.NoError(t, repo.Save(ctx, "old", domainQuery.ContextSnapshot{LastQuery: "old"}))

	repo.now = func() time.Time { return base.Add(48 * time.Hour) }
	require.NoError(t, repo.Save(ctx, "new", domainQuery.ContextSnapshot{LastQuery: "new"}))

	removed, err := repo.PurgeBefore(ctx, base.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	old, err := repo.Load(ctx, "old")
	require.NoError(t, err)
	assert.Nil(t, old)
}
