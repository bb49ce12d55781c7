package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appQuery "github.com/logisense/backend/internal/application/query"
	domainQuery "github.com/logisense/backend/internal/domain/query"
)

type fakeAssistant struct {
	askCalls []string
	answer   *appQuery.Answer
	err      error
}

func (f *fakeAssistant) Ask(_ context.Context, sessionID, query string) (*appQuery.Answer, error) {
	f.askCalls = append(f.askCalls, sessionID+"|"+query)
	return f.answer, f.err
}

func (f *fakeAssistant) ShowRecords(_ context.Context, sessionID, query string) (*appQuery.Answer, error) {
	return f.answer, f.err
}

func TestAskTool(t *testing.T) {
	assistant := &fakeAssistant{answer: &appQuery.Answer{
		SessionID: "s1",
		Response:  "Weather delays.",
		Category:  domainQuery.CategoryWeather,
	}}
	s := NewServer(assistant)

	_, out, err := s.askTool(context.Background(), nil, AskInput{Query: "late trucks", SessionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "Weather delays.", out.Response)
	assert.Equal(t, "WEATHER", out.Category)
	assert.NotNil(t, out.TopRecords)
	assert.Equal(t, []string{"s1|late trucks"}, assistant.askCalls)
}

func TestAskTool_RequiresQuery(t *testing.T) {
	assistant := &fakeAssistant{}
	_, _, err := NewServer(assistant).askTool(context.Background(), nil, AskInput{})
	assert.Error(t, err)
	assert.Empty(t, assistant.askCalls)
}

func TestShowRecordsTool_NoContext(t *testing.T) {
	assistant := &fakeAssistant{err: domainQuery.ErrNoPriorContext}
	_, _, err := NewServer(assistant).showRecordsTool(context.Background(), nil, ShowRecordsInput{Query: "show top 3 records"})
	assert.ErrorIs(t, err, domainQuery.ErrNoPriorContext)
}

func TestNewServer_Handler(t *testing.T) {
	assert.NotNil(t, NewServer(&fakeAssistant{}).GetHandler())
}
