package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appQuery "github.com/logisense/backend/internal/application/query"
	domainQuery "github.com/logisense/backend/internal/domain/query"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAssistant struct {
	answer  *appQuery.Answer
	err     error
	summary *appQuery.SessionSummary
	resets  []string
	asked   []string
}

func (f *fakeAssistant) Ask(_ context.Context, sessionID, query string) (*appQuery.Answer, error) {
	f.asked = append(f.asked, sessionID+"|"+query)
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func (f *fakeAssistant) ShowRecords(_ context.Context, sessionID, query string) (*appQuery.Answer, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func (f *fakeAssistant) Session(_ context.Context, sessionID string) (*appQuery.SessionSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func (f *fakeAssistant) Reset(_ context.Context, sessionID string) error {
	f.resets = append(f.resets, sessionID)
	return f.err
}

// setupQueryRouter 创建测试路由
func setupQueryRouter(assistant Assistant) *gin.Engine {
	router := gin.New()
	h := NewQueryHandler(assistant)

	api := router.Group("/api/v1")
	{
		api.POST("/query", h.Query)
		api.POST("/records", h.Records)
		api.GET("/sessions/:id", h.GetSession)
		api.DELETE("/sessions/:id", h.ResetSession)
	}
	return router
}

func postJSON(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQueryHandler_Query(t *testing.T) {
	assistant := &fakeAssistant{answer: &appQuery.Answer{
		SessionID:  "default",
		Response:   "Weather and fatigue.",
		TopRecords: []domainQuery.Record{{"shipment_id": "S-1"}},
		MapURL:     "http://localhost:8000/static/map.html",
		MapPath:    "/tmp/map.html",
	}}
	router := setupQueryRouter(assistant)

	w := postJSON(router, "/api/v1/query", QueryRequest{Query: "Top reasons for delay"})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Weather and fatigue.", body["response"])
	assert.Equal(t, "http://localhost:8000/static/map.html", body["map_url"])
	assert.Len(t, body["top_records"], 1)
	assert.NotContains(t, body, "MapPath")
	assert.Equal(t, []string{"|Top reasons for delay"}, assistant.asked)
}

func TestQueryHandler_QueryErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		stage  string
	}{
		{"empty query", domainQuery.ErrEmptyQuery, http.StatusBadRequest, ""},
		{
			"upstream unavailable",
			&domainQuery.StageError{Stage: domainQuery.StageRetrieve, Err: domainQuery.NewUpstreamError("qdrant", fmt.Errorf("dial tcp: refused"))},
			http.StatusServiceUnavailable,
			"retrieve",
		},
		{"classification failed", &domainQuery.StageError{Stage: domainQuery.StageClassify, Err: domainQuery.ErrClassificationFailed}, http.StatusInternalServerError, "classify"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupQueryRouter(&fakeAssistant{err: tt.err})
			w := postJSON(router, "/api/v1/query", QueryRequest{Query: "q"})
			assert.Equal(t, tt.status, w.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			if tt.stage != "" {
				assert.Equal(t, tt.stage, body["stage"])
			}
		})
	}
}

func TestQueryHandler_QueryMissingBody(t *testing.T) {
	assistant := &fakeAssistant{}
	router := setupQueryRouter(assistant)

	w := postJSON(router, "/api/v1/query", map[string]string{"session_id": "s1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, assistant.asked)
}

func TestQueryHandler_RecordsWithoutContext(t *testing.T) {
	router := setupQueryRouter(&fakeAssistant{err: domainQuery.ErrNoPriorContext})

	w := postJSON(router, "/api/v1/records", RecordsRequest{Query: "show top 3 records"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "no previous query context")
}

func TestQueryHandler_Sessions(t *testing.T) {
	assistant := &fakeAssistant{summary: &appQuery.SessionSummary{SessionID: "s1", LastQuery: "late trucks", DocumentCount: 5}}
	router := setupQueryRouter(assistant)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions/s1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int                     `json:"code"`
		Data appQuery.SessionSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, 5, body.Data.DocumentCount)

	req = httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/s1", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"s1"}, assistant.resets)
}
