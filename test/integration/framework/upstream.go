//go:build integration
// +build integration

package framework

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
)

// FakeUpstream 同时模拟 OpenAI 兼容的 chat/completions 与 embeddings 接口
type FakeUpstream struct {
	server *httptest.Server

	Label  string
	Answer string

	chatCalls      atomic.Int32
	embeddingCalls atomic.Int32
}

// NewFakeUpstream 启动假上游，分类请求回复 label，其余请求回复 answer
func NewFakeUpstream(label, answer string) *FakeUpstream {
	u := &FakeUpstream{Label: label, Answer: answer}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/completions", u.handleChat)
	mux.HandleFunc("/v1/embeddings", u.handleEmbeddings)
	u.server = httptest.NewServer(mux)
	return u
}

// URL 上游基础地址
func (u *FakeUpstream) URL() string {
	return u.server.URL
}

// Close 关闭假上游
func (u *FakeUpstream) Close() {
	u.server.Close()
}

// ChatCalls chat/completions 调用次数
func (u *FakeUpstream) ChatCalls() int {
	return int(u.chatCalls.Load())
}

// EmbeddingCalls embeddings 调用次数
func (u *FakeUpstream) EmbeddingCalls() int {
	return int(u.embeddingCalls.Load())
}

func (u *FakeUpstream) handleChat(w http.ResponseWriter, r *http.Request) {
	u.chatCalls.Add(1)

	var req struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	content := u.Answer
	if strings.Contains(req.Messages[0].Content, "Classify the logistics query") {
		content = u.Label
	}

	writeJSON(w, map[string]any{
		"id":    "chatcmpl-test",
		"model": "fake",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]string{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
}

func (u *FakeUpstream) handleEmbeddings(w http.ResponseWriter, r *http.Request) {
	u.embeddingCalls.Add(1)

	var req struct {
		Input []string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	data := make([]map[string]any, 0, len(req.Input))
	for i := range req.Input {
		vec := make([]float32, 384)
		vec[i%len(vec)] = 1
		data = append(data, map[string]any{"embedding": vec, "index": i})
	}
	writeJSON(w, map[string]any{"data": data, "model": "fake"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
