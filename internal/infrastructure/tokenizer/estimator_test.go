package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEstimator(t *testing.T) {
	e1, err := GetEstimator()
	require.NoError(t, err)
	e2, err := GetEstimator()
	require.NoError(t, err)
	assert.Same(t, e1, e2)
}

func TestEstimator_CountTokens(t *testing.T) {
	e, err := GetEstimator()
	require.NoError(t, err)

	tests := []struct {
		name     string
		text     string
		minCount int
		maxCount int
	}{
		{"empty", "", 0, 0},
		{"short", "Hello, world!", 3, 5},
		{"summary", "On 2021-01-01 a shipment near GPS (40.38, -77.01) had high driver fatigue.", 15, 40},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := e.CountTokens(tt.text)
			assert.GreaterOrEqual(t, n, tt.minCount)
			assert.LessOrEqual(t, n, tt.maxCount)
		})
	}
}

func TestEstimator_CountTokensBatch(t *testing.T) {
	e, err := GetEstimator()
	require.NoError(t, err)

	texts := []string{"first summary", "second summary"}
	assert.Equal(t, e.CountTokens(texts[0])+e.CountTokens(texts[1]), e.CountTokensBatch(texts))
}
