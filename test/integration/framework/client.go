//go:build integration
// +build integration

// APIClient 基于 resty 封装的 HTTP 客户端，直接复用业务结构体
package framework

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	appQuery "github.com/logisense/backend/internal/application/query"
	"github.com/logisense/backend/internal/interfaces/http/response"
)

// APIClient 测试用 HTTP 客户端
type APIClient struct {
	client  *resty.Client
	baseURL string
}

// NewAPIClient 创建测试用 HTTP 客户端
func NewAPIClient(baseURL string) *APIClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &APIClient{
		client:  client,
		baseURL: baseURL,
	}
}

// APIResponse 通用 API 响应（与 response.Response 的 JSON 结构一致）
type APIResponse[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

// Result 一次调用的结果：成功时 Answer 非空，失败时 Error 非空
type Result struct {
	StatusCode int
	Answer     *appQuery.Answer
	Error      *response.ErrorResponse
}

// Query POST /api/v1/query
func (c *APIClient) Query(sessionID, query string) (*Result, error) {
	return c.postAnswer("/api/v1/query", map[string]string{
		"query":      query,
		"session_id": sessionID,
	})
}

// Records POST /api/v1/records
func (c *APIClient) Records(sessionID, query string) (*Result, error) {
	return c.postAnswer("/api/v1/records", map[string]string{
		"query":      query,
		"session_id": sessionID,
	})
}

// GetSession GET /api/v1/sessions/:id
func (c *APIClient) GetSession(sessionID string) (*appQuery.SessionSummary, int, error) {
	var out APIResponse[*appQuery.SessionSummary]
	resp, err := c.client.R().
		SetResult(&out).
		Get("/api/v1/sessions/" + sessionID)
	if err != nil {
		return nil, 0, fmt.Errorf("get session failed: %w", err)
	}
	return out.Data, resp.StatusCode(), nil
}

// ResetSession DELETE /api/v1/sessions/:id
func (c *APIClient) ResetSession(sessionID string) (int, error) {
	resp, err := c.client.R().Delete("/api/v1/sessions/" + sessionID)
	if err != nil {
		return 0, fmt.Errorf("reset session failed: %w", err)
	}
	return resp.StatusCode(), nil
}

// Health GET /health
func (c *APIClient) Health() (map[string]string, error) {
	var out map[string]string
	if _, err := c.client.R().SetResult(&out).Get("/health"); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return out, nil
}

// GetRaw 访问任意路径，返回状态码与响应体
func (c *APIClient) GetRaw(path string) (int, []byte, error) {
	resp, err := c.client.R().Get(path)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode(), resp.Body(), nil
}

func (c *APIClient) postAnswer(path string, body any) (*Result, error) {
	resp, err := c.client.R().SetBody(body).Post(path)
	if err != nil {
		return nil, fmt.Errorf("POST %s failed: %w", path, err)
	}

	result := &Result{StatusCode: resp.StatusCode()}
	if resp.IsSuccess() {
		var answer appQuery.Answer
		if err := json.Unmarshal(resp.Body(), &answer); err != nil {
			return nil, fmt.Errorf("failed to decode answer: %w", err)
		}
		result.Answer = &answer
		return result, nil
	}

	var errResp response.ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errResp); err != nil {
		return nil, fmt.Errorf("failed to decode error response (%d): %w", resp.StatusCode(), err)
	}
	result.Error = &errResp
	return result, nil
}
