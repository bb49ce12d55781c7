package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryDelay, NormalizeCategory("  delay\n"))
	assert.True(t, NormalizeCategory("fatigue").IsKnown())

	// 集合外的标签透传
	custom := NormalizeCategory("customs")
	assert.Equal(t, Category("CUSTOMS"), custom)
	assert.False(t, custom.IsKnown())
}

func TestPrefix(t *testing.T) {
	docs := []RetrievedDocument{{Summary: "1"}, {Summary: "2"}, {Summary: "3"}}

	assert.Len(t, Prefix(docs, 2), 2)
	assert.Equal(t, docs, Prefix(docs, 10))
	assert.Empty(t, Prefix(docs, 0))
	assert.NotNil(t, Prefix(docs, 0))
	assert.Empty(t, Prefix(nil, 3))
}

func TestRecords_MissingRecordIsEmpty(t *testing.T) {
	docs := []RetrievedDocument{
		{Summary: "with record", Record: Record{"shipment_id": "S1"}},
		{Summary: "without record"},
	}

	records := Records(docs)
	assert.Equal(t, Record{"shipment_id": "S1"}, records[0])
	assert.Equal(t, Record{}, records[1])
	assert.Equal(t, []string{"with record", "without record"}, Summaries(docs))
}

func TestRecord_Clone(t *testing.T) {
	original := Record{"shipment_id": "S-1"}
	clone := original.Clone()
	clone["shipment_id"] = "S-2"

	assert.Equal(t, "S-1", original["shipment_id"])
	assert.Empty(t, Record(nil).Clone())
}

func TestUpstreamError_Is(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := &StageError{Stage: StageRetrieve, Err: NewUpstreamError("qdrant", cause)}

	assert.True(t, errors.Is(err, ErrUpstreamUnavailable))
	assert.True(t, errors.Is(err, cause))

	stage, ok := FailedStage(err)
	assert.True(t, ok)
	assert.Equal(t, StageRetrieve, stage)

	_, ok = FailedStage(cause)
	assert.False(t, ok)
}
