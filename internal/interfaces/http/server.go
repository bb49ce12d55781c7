package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appSpatial "github.com/logisense/backend/internal/application/spatial"
	"github.com/logisense/backend/internal/infrastructure/config"
	"github.com/logisense/backend/internal/infrastructure/log"
	"github.com/logisense/backend/internal/interfaces/http/handler"
	"github.com/logisense/backend/internal/interfaces/http/middleware"
	"github.com/logisense/backend/internal/interfaces/mcp"
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	queryHandler *handler.QueryHandler,
	chatHandler *handler.ChatHandler,
	readyHandler *handler.ReadyHandler,
	plotter *appSpatial.Plotter,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	if !log.IsDebugMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.AccessLog(),
		middleware.CORS(cfg.CORSOrigins),
		middleware.EnsureUTF8Body(),
	)

	api := router.Group("/api/v1")
	{
		api.POST("/query", queryHandler.Query)
		api.POST("/records", queryHandler.Records)
		api.GET("/sessions/:id", queryHandler.GetSession)
		api.DELETE("/sessions/:id", queryHandler.ResetSession)
		api.GET("/chat/ws", chatHandler.Serve)
	}

	router.GET("/health", handler.Health)
	if readyHandler != nil {
		router.GET("/health/ready", readyHandler.Ready)
	}

	// 地图文件
	if plotter != nil {
		router.Static("/static", plotter.OutputDir())
	}

	// MCP SSE 端点
	if mcpServer != nil && cfg.MCPEnabled {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: cfg.HTTPPort,
		logger:   log.NewModuleLogger("http", "server"),
	}
}

// Handler 路由（测试用）
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start 在已持有的监听器上启动，ln 为 nil 时自行监听端口
func (s *HTTPServer) Start(ln net.Listener) error {
	s.server = &http.Server{
		Addr:              s.httpPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	var err error
	if ln != nil {
		err = s.server.Serve(ln)
	} else {
		err = s.server.ListenAndServe()
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
