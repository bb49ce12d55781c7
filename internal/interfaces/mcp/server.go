package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appQuery "github.com/logisense/backend/internal/application/query"
	"github.com/logisense/backend/internal/infrastructure/log"
)

// Version MCP 服务版本
const Version = "0.1.0"

// Assistant MCP 工具依赖的查询服务
type Assistant interface {
	Ask(ctx context.Context, sessionID, query string) (*appQuery.Answer, error)
	ShowRecords(ctx context.Context, sessionID, query string) (*appQuery.Answer, error)
}

// MCPServer MCP 服务器
type MCPServer struct {
	server    *mcp.Server
	handler   http.Handler
	assistant Assistant
	logger    *slog.Logger
}

// NewServer 创建 MCP 服务器
func NewServer(assistant Assistant) *MCPServer {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "logisense",
			Version: Version,
		},
		nil,
	)

	s := &MCPServer{
		server:    server,
		assistant: assistant,
		logger:    log.NewModuleLogger("mcp", "server"),
	}

	mcp.AddTool(server, &mcp.Tool{
		Name: "ask_logistics",
		Description: `Answer a natural-language question about logistics telemetry (shipment delays, driver fatigue, fuel, weather, route risk, inventory) using retrieval over indexed shipment summaries.

Parameters:
- query (string, required): The question, e.g. "Top reasons for delay" or "plot map for high driver fatigue".
- session_id (string, optional): Conversation session. Follow-up questions such as "show top 3 records" reuse the previous answer's documents in the same session.

Returns: answer text, supporting records, optional map URL, and the detected category.`,
	}, s.askTool)

	mcp.AddTool(server, &mcp.Tool{
		Name: "show_records",
		Description: `Show the top N supporting records from the previous answer in a session without running a new search.

Parameters:
- query (string, optional): Follow-up text containing N, e.g. "show top 3 records". Defaults to 5 records.
- session_id (string, optional): Conversation session used by ask_logistics.

Fails when the session has no previous answer.`,
	}, s.showRecordsTool)

	s.handler = mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			return server
		},
		nil,
	)
	return s
}

// GetHandler 获取 HTTP Handler（挂载到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
