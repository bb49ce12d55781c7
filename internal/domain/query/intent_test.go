package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentDetector_DetectFollowUp(t *testing.T) {
	detector := MustIntentDetector()

	tests := []struct {
		name          string
		query         string
		wantMatch     bool
		wantCount     int
		wantExplicit  bool
	}{
		{"show top 3 records", "show top 3 records", true, 3, true},
		{"大小写不敏感", "SHOW Top 10 Rows", true, 10, true},
		{"宽松共现", "give me the shipments, top 2 please", true, 2, true},
		{"名词在动词之前", "entries: show 4", true, 4, true},
		{"复数 entries", "show the entries", true, 5, false},
		{"缺少数量使用默认值", "show supporting records", true, 5, false},
		{"数量为 0", "show top 0 records", true, 0, true},
		{"top 与数字连写", "show top3 records", true, 3, true},
		{"top N 优先于其他数字", "show records from 2023, top 4", true, 4, true},
		{"只有动词", "top reasons for delay", false, 0, false},
		{"只有名词", "which shipment was late", false, 0, false},
		{"名词是其他单词的一部分", "show the recorder status", false, 0, false},
		{"空查询", "", false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			followUp, ok := detector.DetectFollowUp(tt.query)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantCount, followUp.Count)
				assert.Equal(t, tt.wantExplicit, followUp.CountExplicit)
			}
		})
	}
}

func TestIntentDetector_MapRequested(t *testing.T) {
	detector := MustIntentDetector()

	assert.True(t, detector.MapRequested("Plot map for high driver fatigue"))
	assert.True(t, detector.MapRequested("show a MAP"))
	assert.True(t, detector.MapRequested("plotting delays"))
	assert.False(t, detector.MapRequested("top reasons for delay"))
}

func TestIntentDetector_IndependentFlags(t *testing.T) {
	detector := MustIntentDetector()

	intent := detector.Detect("show top 2 records on a map")
	require.NotNil(t, intent.FollowUp)
	assert.Equal(t, 2, intent.FollowUp.Count)
	assert.True(t, intent.MapRequested)

	intent = detector.Detect("plot delay hotspots")
	assert.Nil(t, intent.FollowUp)
	assert.True(t, intent.MapRequested)

	intent = detector.Detect("show top 2 records")
	assert.NotNil(t, intent.FollowUp)
	assert.False(t, intent.MapRequested)
}

func TestIntentDetector_Update(t *testing.T) {
	detector := MustIntentDetector()

	err := detector.Update(IntentConfig{
		FollowUpVerbs: []string{"list"},
		FollowUpNouns: []string{"delivery"},
		MapKeywords:   []string{"chart"},
		DefaultCount:  7,
	})
	require.NoError(t, err)

	_, ok := detector.DetectFollowUp("show top 3 records")
	assert.False(t, ok, "旧模式应该被替换")

	followUp, ok := detector.DetectFollowUp("list deliveries")
	require.True(t, ok)
	assert.Equal(t, 7, followUp.Count)
	assert.True(t, detector.MapRequested("chart it"))
	assert.False(t, detector.MapRequested("plot it"))
}

func TestIntentDetector_UpdateRejectsInvalidConfig(t *testing.T) {
	detector := MustIntentDetector()

	assert.Error(t, detector.Update(IntentConfig{FollowUpNouns: []string{"record"}}))
	assert.Error(t, detector.Update(IntentConfig{FollowUpVerbs: []string{"show"}, FollowUpNouns: []string{"  "}}))
	assert.Error(t, detector.Update(IntentConfig{FollowUpVerbs: []string{"show"}, FollowUpNouns: []string{"row"}, DefaultCount: -1}))

	// 失败的更新不影响现有模式
	_, ok := detector.DetectFollowUp("show top 3 records")
	assert.True(t, ok)
}

func TestFollowUp_CanonicalQuery(t *testing.T) {
	assert.Equal(t, "show top 3 records", FollowUp{Count: 3}.CanonicalQuery())
	assert.Equal(t, "show top 5 records", FollowUp{Count: 5}.CanonicalQuery())
}

func TestIntentDetector_RequestedCount(t *testing.T) {
	d := MustIntentDetector()

	n, explicit := d.RequestedCount("supporting records please")
	assert.Equal(t, DefaultFollowUpCount, n)
	assert.False(t, explicit)

	n, explicit = d.RequestedCount("the 12 rows behind that answer")
	assert.Equal(t, 12, n)
	assert.True(t, explicit)
}
