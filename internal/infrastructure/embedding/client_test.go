package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEmbeddingURL(t *testing.T) {
	assert.Equal(t, "http://host/v1/embeddings", buildEmbeddingURL("http://host"))
	assert.Equal(t, "http://host/v1/embeddings", buildEmbeddingURL("http://host/v1"))
	assert.Equal(t, "http://host/v1/embeddings", buildEmbeddingURL("http://host/v1/embeddings"))
}

func TestClient_EmbedQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))

		var req EmbeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"late shipments"}, req.Input)
		assert.Equal(t, "mini", req.Model)

		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.1,0.2,0.3],"index":0}],"model":"mini"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "secret-key", "mini", time.Second)
	vector, err := client.EmbedQuery(context.Background(), "late shipments")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1],"index":0}]}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "mini", time.Second)
	vector, err := client.EmbedQuery(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, []float32{1}, vector)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(server.URL, "bad", "mini", time.Second)
	_, err := client.EmbedQuery(context.Background(), "q")
	assert.ErrorContains(t, err, "401")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_EmptyInput(t *testing.T) {
	client := NewClient("http://unused", "", "mini", time.Second)
	_, err := client.EmbedTexts(context.Background(), nil)
	assert.Error(t, err)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "sk-1...cdef", maskAPIKey("sk-1234567890abcdef"))
	assert.Equal(t, "***", maskAPIKey("short"))
}

func TestClient_TestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[0.5,0.5],"index":0}],"model":"mini"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "mini", time.Second)
	assert.Equal(t, "mini", client.Model())
	assert.NoError(t, client.TestConnection(context.Background()))
}

func TestClient_TestConnection_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	assert.Error(t, NewClient(server.URL, "", "mini", time.Second).TestConnection(context.Background()))
}
