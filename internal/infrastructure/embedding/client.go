package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/logisense/backend/internal/infrastructure/log"
)

// Client Embedding API 客户端（OpenAI 兼容）
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient 创建 Embedding 客户端
func NewClient(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		// 规范化 baseURL：移除末尾斜杠
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		maxRetries: 3,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.NewModuleLogger("embedding", "client"),
	}
}

// buildEmbeddingURL 构建 Embedding API URL
// 支持多种输入格式，智能拼接 /v1/embeddings 路径
func buildEmbeddingURL(baseURL string) string {
	switch {
	case strings.Contains(baseURL, "/v1/embeddings"):
		return baseURL
	case strings.HasSuffix(baseURL, "/v1"):
		return baseURL + "/embeddings"
	case strings.HasSuffix(baseURL, "/v1/"):
		return baseURL + "embeddings"
	default:
		return fmt.Sprintf("%s/v1/embeddings", baseURL)
	}
}

// EmbeddingRequest Embedding 请求
type EmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingResponse Embedding 响应
type EmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// EmbedQuery 向量化单条查询文本
func (c *Client) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("invalid embedding result: %d vectors", len(vectors))
	}
	return vectors[0], nil
}

// EmbedTexts 批量向量化文本
func (c *Client) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("texts cannot be empty")
	}

	jsonData, err := json.Marshal(EmbeddingRequest{Model: c.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := buildEmbeddingURL(c.baseURL)
	c.logger.Debug("Sending embedding request",
		"url", url,
		"batch_size", len(texts),
		"model", c.model,
		"api_key", maskAPIKey(c.apiKey),
	)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// 递增延迟
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * time.Second):
			}
		}

		vectors, retryable, err := c.doRequest(ctx, url, jsonData, len(texts))
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		c.logger.Warn("Embedding request failed, retrying",
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"error", err,
		)
	}

	c.logger.Error("Embedding request failed",
		"max_retries", c.maxRetries,
		"error", lastErr,
	)
	return nil, lastErr
}

// doRequest 发送单次请求，返回错误是否可重试
func (c *Client) doRequest(ctx context.Context, url string, body []byte, expected int) ([][]float32, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		retryable := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500
		return nil, retryable, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var embeddingResp EmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embeddingResp); err != nil {
		return nil, false, fmt.Errorf("failed to decode response: %w", err)
	}

	vectors := make([][]float32, expected)
	for _, data := range embeddingResp.Data {
		if data.Index < 0 || data.Index >= expected {
			return nil, false, fmt.Errorf("embedding index %d out of range", data.Index)
		}
		vectors[data.Index] = data.Embedding
	}
	return vectors, false, nil
}

// Model 返回当前模型名
func (c *Client) Model() string {
	return c.model
}

// TestConnection 测试连接
func (c *Client) TestConnection(ctx context.Context) error {
	vector, err := c.EmbedQuery(ctx, "test")
	if err != nil {
		c.logger.Error("Embedding API connection test failed", "error", err)
		return err
	}
	c.logger.Info("Embedding API connection test successful",
		"base_url", c.baseURL,
		"model", c.model,
		"vector_dimension", len(vector),
	)
	return nil
}

// maskAPIKey API Key 脱敏
func maskAPIKey(key string) string {
	if len(key) > 8 {
		return key[:4] + "..." + key[len(key)-4:]
	}
	return "***"
}
