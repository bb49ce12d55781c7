package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appQuery "github.com/logisense/backend/internal/application/query"
	domainQuery "github.com/logisense/backend/internal/domain/query"
)

type scriptedAssistant struct {
	queries []string
	answers map[string]*appQuery.Answer
	records *appQuery.Answer
	err     error
}

func (s *scriptedAssistant) Ask(_ context.Context, sessionID, query string) (*appQuery.Answer, error) {
	s.queries = append(s.queries, query)
	if answer, ok := s.answers[query]; ok {
		return answer, nil
	}
	return nil, errors.New("upstream unavailable")
}

func (s *scriptedAssistant) ShowRecords(_ context.Context, sessionID, query string) (*appQuery.Answer, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func TestRunChat(t *testing.T) {
	assistant := &scriptedAssistant{answers: map[string]*appQuery.Answer{
		"Top reasons for delay": {Response: "Weather.", Category: domainQuery.CategoryDelay},
		"show top 2 records":    {Response: "Top 2 Supporting Records:", FollowUp: true},
	}}
	in := strings.NewReader("Top reasons for delay\n\nbroken query\nshow top 2 records\nQUIT\nnever asked\n")
	var out bytes.Buffer

	require.NoError(t, runChat(context.Background(), assistant, "default", in, &out))

	assert.Equal(t, []string{"Top reasons for delay", "broken query", "show top 2 records"}, assistant.queries)
	text := out.String()
	assert.Contains(t, text, "Route: DELAY")
	assert.Contains(t, text, "Final Response:\nWeather.")
	assert.Contains(t, text, "Error: upstream unavailable")
	assert.Contains(t, text, "Top 2 Supporting Records:")
	assert.True(t, strings.HasSuffix(text, "Exiting chatbot.\n"))
}

func TestRunChat_EOF(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, runChat(context.Background(), &scriptedAssistant{}, "default", strings.NewReader(""), &out))
	assert.Contains(t, out.String(), "Exiting chatbot.")
}

func TestRunChat_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assistant := &scriptedAssistant{}
	var out bytes.Buffer
	require.NoError(t, runChat(ctx, assistant, "default", strings.NewReader("late trucks\n"), &out))
	assert.Empty(t, assistant.queries)
}

func TestShowRecords_NoContext(t *testing.T) {
	var out bytes.Buffer
	err := showRecords(context.Background(), &scriptedAssistant{err: domainQuery.ErrNoPriorContext}, "default", "show top 3 records", &out)

	assert.ErrorIs(t, err, errReported)
	assert.Equal(t, NoContextMessage+"\n", out.String())
}

func TestShowRecords(t *testing.T) {
	var out bytes.Buffer
	assistant := &scriptedAssistant{records: &appQuery.Answer{Response: "Top 1 Supporting Records:", FollowUp: true}}

	require.NoError(t, showRecords(context.Background(), assistant, "default", "1", &out))
	assert.Contains(t, out.String(), "Top 1 Supporting Records:")
	assert.NotContains(t, out.String(), "Final Response")
}

func TestPrintAnswer_Map(t *testing.T) {
	var out bytes.Buffer
	printAnswer(&out, &appQuery.Answer{
		Response:     "hotspots",
		MapRequested: true,
		MapURL:       "http://localhost:8000/static/map.html",
		MapPath:      "/data/static/map.html",
	})
	assert.Contains(t, out.String(), "Map saved to /data/static/map.html (http://localhost:8000/static/map.html)")

	out.Reset()
	printAnswer(&out, &appQuery.Answer{Response: "hotspots", MapRequested: true})
	assert.Contains(t, out.String(), "Map could not be generated")
}

func TestNormalizeQuotes(t *testing.T) {
	assert.Equal(t, `show "top" records`, normalizeQuotes("  show “top” records "))
}
