package wire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/config"
)

func TestApp_ReloadIntents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logisense.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
intent:
  follow_up_verbs: [list]
  follow_up_nouns: [row]
  map_keywords: [chart]
`), 0o644))

	intents := domainQuery.MustIntentDetector()
	app := NewApp(config.NewConfig(), nil, intents)

	app.reloadIntents(path)

	_, ok := intents.DetectFollowUp("list 3 rows")
	assert.True(t, ok)
	assert.True(t, intents.MapRequested("chart the delays"))
	assert.False(t, intents.MapRequested("plot the delays"))
}

func TestApp_ReloadIntentsKeepsPatternsOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logisense.yaml")
	require.NoError(t, os.WriteFile(path, []byte("intent: [not, a, map"), 0o644))

	intents := domainQuery.MustIntentDetector()
	app := NewApp(config.NewConfig(), nil, intents)

	app.reloadIntents(path)

	_, ok := intents.DetectFollowUp("show top 3 records")
	assert.True(t, ok)
}
