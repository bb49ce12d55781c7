package handler

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appQuery "github.com/logisense/backend/internal/application/query"
	domainQuery "github.com/logisense/backend/internal/domain/query"
)

func dialChat(t *testing.T, assistant Assistant) *websocket.Conn {
	t.Helper()
	router := gin.New()
	router.GET("/api/v1/chat/ws", NewChatHandler(assistant).Serve)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/chat/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	return conn
}

func TestChatHandler_AnswersOnOneSession(t *testing.T) {
	assistant := &fakeAssistant{answer: &appQuery.Answer{Response: "ok"}}
	conn := dialChat(t, assistant)

	require.NoError(t, conn.WriteJSON(ChatMessage{Query: "late trucks"}))
	var answer appQuery.Answer
	require.NoError(t, conn.ReadJSON(&answer))
	assert.Equal(t, "ok", answer.Response)

	require.NoError(t, conn.WriteJSON(ChatMessage{Query: "show top 2 records"}))
	require.NoError(t, conn.ReadJSON(&answer))

	require.Len(t, assistant.asked, 2)
	first := strings.SplitN(assistant.asked[0], "|", 2)[0]
	second := strings.SplitN(assistant.asked[1], "|", 2)[0]
	assert.True(t, strings.HasPrefix(first, "ws-"))
	assert.Equal(t, first, second)
}

func TestChatHandler_ErrorFrame(t *testing.T) {
	conn := dialChat(t, &fakeAssistant{err: domainQuery.NewUpstreamError("llm", assert.AnError)})

	require.NoError(t, conn.WriteJSON(ChatMessage{Query: "late trucks"}))
	var frame ChatError
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, 503, frame.Code)
	assert.NotEmpty(t, frame.Error)
}

func TestChatHandler_InvalidFrame(t *testing.T) {
	conn := dialChat(t, &fakeAssistant{})

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	var frame ChatError
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "invalid message format", frame.Error)
}

func TestChatHandler_ExitClosesConnection(t *testing.T) {
	conn := dialChat(t, &fakeAssistant{})

	require.NoError(t, conn.WriteJSON(ChatMessage{Query: "quit"}))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))
}

func TestIsExitWord(t *testing.T) {
	assert.True(t, isExitWord(" EXIT "))
	assert.True(t, isExitWord("quit"))
	assert.False(t, isExitWord("exit the highway"))
}
