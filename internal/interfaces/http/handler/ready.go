package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/infrastructure/singleton"
)

// readyCheckTimeout 单个依赖的检查超时
const readyCheckTimeout = 5 * time.Second

// Dependency 就绪检查的上游依赖
type Dependency struct {
	Name   string
	Target string // 模型名或集合名
	Check  func(ctx context.Context) error
}

// DependencyStatus 单个依赖的检查结果
type DependencyStatus struct {
	Name    string `json:"name"`
	Target  string `json:"target,omitempty"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

// ReadyHandler 检查检索与生成所需的上游服务
type ReadyHandler struct {
	deps    []Dependency
	timeout time.Duration
	logger  *slog.Logger
}

// NewReadyHandler 创建就绪检查处理器
func NewReadyHandler(deps []Dependency) *ReadyHandler {
	return &ReadyHandler{
		deps:    deps,
		timeout: readyCheckTimeout,
		logger:  log.NewModuleLogger("http", "ready"),
	}
}

// Ready 并行检查所有依赖，任一不可用返回 503
// @Router /health/ready [get]
func (h *ReadyHandler) Ready(c *gin.Context) {
	statuses := h.check(c.Request.Context())

	ready := true
	for _, status := range statuses {
		if !status.Healthy {
			ready = false
			h.logger.Warn("Upstream dependency not ready",
				"dependency", status.Name,
				"target", status.Target,
				"error", status.Error,
			)
		}
	}

	code, state := http.StatusOK, "ready"
	if !ready {
		code, state = http.StatusServiceUnavailable, "unavailable"
	}
	c.JSON(code, gin.H{
		"status":       state,
		"service":      singleton.ServiceName,
		"dependencies": statuses,
	})
}

func (h *ReadyHandler) check(ctx context.Context) []DependencyStatus {
	statuses := make([]DependencyStatus, len(h.deps))

	var wg sync.WaitGroup
	for i, dep := range h.deps {
		wg.Add(1)
		go func(i int, dep Dependency) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, h.timeout)
			defer cancel()

			start := time.Now()
			err := dep.Check(ctx)
			statuses[i] = DependencyStatus{
				Name:    dep.Name,
				Target:  dep.Target,
				Healthy: err == nil,
				Latency: time.Since(start).Round(time.Millisecond).String(),
			}
			if err != nil {
				statuses[i].Error = err.Error()
			}
		}(i, dep)
	}
	wg.Wait()
	return statuses
}
