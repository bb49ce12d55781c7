package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"
)

// JSONHandler JSON 格式日志处理器（单行对象，属性平铺）
type JSONHandler struct {
	opts  slog.HandlerOptions
	mu    *sync.Mutex
	enc   *json.Encoder
	attrs []slog.Attr
}

// NewJSONHandler 创建 JSON 处理器
func NewJSONHandler(out io.Writer, opts *slog.HandlerOptions) *JSONHandler {
	h := &JSONHandler{
		mu:  &sync.Mutex{},
		enc: json.NewEncoder(out),
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

// Enabled 检查日志级别是否启用
func (h *JSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle 处理日志记录
func (h *JSONHandler) Handle(_ context.Context, r slog.Record) error {
	obj := make(map[string]any, len(h.attrs)+r.NumAttrs()+3)

	for _, a := range h.attrs {
		obj[a.Key] = attrValue(a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		obj[a.Key] = attrValue(a.Value)
		return true
	})

	// 基础字段
	obj["time"] = r.Time.Format(time.RFC3339Nano)
	obj["level"] = r.Level.String()
	obj["msg"] = r.Message

	h.mu.Lock()
	defer h.mu.Unlock()
	return h.enc.Encode(obj)
}

// WithAttrs 返回带有额外属性的处理器
func (h *JSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

// WithGroup 分组在平铺输出中不生效
func (h *JSONHandler) WithGroup(string) slog.Handler {
	return h
}

// attrValue 转换为可 JSON 编码的值，error 转为字符串
func attrValue(v slog.Value) any {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return err.Error()
		}
	}
	return v.Any()
}
