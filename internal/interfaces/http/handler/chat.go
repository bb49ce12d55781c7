package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	domainQuery "github.com/logisense/backend/internal/domain/query"
	"github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/interfaces/http/response"
)

const (
	chatReadLimit  = 64 * 1024
	chatIdleTime   = 10 * time.Minute
	chatWriteTime  = 10 * time.Second
	chatSessionTag = "ws-"
)

// ChatMessage 客户端消息
type ChatMessage struct {
	Query string `json:"query"`
}

// ChatError 服务端错误帧
type ChatError struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	Stage string `json:"stage,omitempty"`
}

// ChatHandler WebSocket 对话，每个连接独占一个会话上下文
type ChatHandler struct {
	assistant Assistant
	upgrader  websocket.Upgrader
	logger    *slog.Logger
}

// NewChatHandler 创建对话处理器
func NewChatHandler(assistant Assistant) *ChatHandler {
	return &ChatHandler{
		assistant: assistant,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: log.NewModuleLogger("http", "chat"),
	}
}

// Serve 升级连接并逐条处理查询
// @Router /chat/ws [get]
func (h *ChatHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Failed to upgrade websocket connection", "error", err)
		return
	}
	defer func() { _ = conn.Close() }()

	sessionID := chatSessionTag + uuid.NewString()
	ctx := log.WithSessionID(c.Request.Context(), sessionID)
	logger := log.FromContext(ctx, h.logger)
	logger.Info("Chat connection opened")

	defer func() {
		// 上下文只属于这个连接
		if err := h.assistant.Reset(context.WithoutCancel(ctx), sessionID); err != nil {
			logger.Warn("Failed to discard chat session", "error", err)
		}
		logger.Info("Chat connection closed")
	}()

	conn.SetReadLimit(chatReadLimit)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(chatIdleTime))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("Chat connection read failed", "error", err)
			}
			return
		}

		var msg ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			if !h.write(conn, ChatError{Error: "invalid message format", Code: response.CodeInvalidRequest}) {
				return
			}
			continue
		}
		if isExitWord(msg.Query) {
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
			return
		}

		answer, err := h.assistant.Ask(ctx, sessionID, msg.Query)
		var frame any = answer
		if err != nil {
			frame = chatError(err)
		}
		if !h.write(conn, frame) {
			return
		}
	}
}

func (h *ChatHandler) write(conn *websocket.Conn, v any) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(chatWriteTime))
	if err := conn.WriteJSON(v); err != nil {
		h.logger.Warn("Failed to write chat frame", "error", err)
		return false
	}
	return true
}

func chatError(err error) ChatError {
	frame := ChatError{Error: err.Error(), Code: response.StatusFor(err)}
	if stage, ok := domainQuery.FailedStage(err); ok {
		frame.Stage = string(stage)
	}
	return frame
}

// isExitWord exit / quit 结束对话
func isExitWord(query string) bool {
	switch strings.ToLower(strings.TrimSpace(query)) {
	case "exit", "quit":
		return true
	}
	return false
}
