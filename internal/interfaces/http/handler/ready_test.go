package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readyBody struct {
	Status       string             `json:"status"`
	Dependencies []DependencyStatus `json:"dependencies"`
}

func getReady(t *testing.T, h *ReadyHandler) (int, readyBody) {
	t.Helper()
	router := gin.New()
	router.GET("/health/ready", h.Ready)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var body readyBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func okCheck(context.Context) error { return nil }

func TestReadyHandler_AllHealthy(t *testing.T) {
	h := NewReadyHandler([]Dependency{
		{Name: "llm", Target: "mistral", Check: okCheck},
		{Name: "qdrant", Target: "telemetry_docs", Check: okCheck},
	})

	code, body := getReady(t, h)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body.Status)
	require.Len(t, body.Dependencies, 2)
	assert.Equal(t, "llm", body.Dependencies[0].Name)
	assert.Equal(t, "telemetry_docs", body.Dependencies[1].Target)
	assert.True(t, body.Dependencies[1].Healthy)
}

func TestReadyHandler_UnhealthyDependency(t *testing.T) {
	h := NewReadyHandler([]Dependency{
		{Name: "llm", Check: okCheck},
		{Name: "qdrant", Check: func(context.Context) error { return errors.New("connection refused") }},
	})

	code, body := getReady(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unavailable", body.Status)
	assert.True(t, body.Dependencies[0].Healthy)
	assert.False(t, body.Dependencies[1].Healthy)
	assert.Equal(t, "connection refused", body.Dependencies[1].Error)
}

func TestReadyHandler_CheckTimesOut(t *testing.T) {
	h := NewReadyHandler([]Dependency{
		{Name: "embedding", Check: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		}},
	})
	h.timeout = 20 * time.Millisecond

	code, body := getReady(t, h)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Dependencies[0].Error, "deadline exceeded")
}
