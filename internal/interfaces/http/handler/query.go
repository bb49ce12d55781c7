package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	appQuery "github.com/logisense/backend/internal/application/query"
	"github.com/logisense/backend/internal/interfaces/http/response"
)

// Assistant 会话级查询服务
type Assistant interface {
	Ask(ctx context.Context, sessionID, query string) (*appQuery.Answer, error)
	ShowRecords(ctx context.Context, sessionID, query string) (*appQuery.Answer, error)
	Session(ctx context.Context, sessionID string) (*appQuery.SessionSummary, error)
	Reset(ctx context.Context, sessionID string) error
}

// QueryRequest 查询请求
type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

// RecordsRequest 追问请求，query 为空时返回默认条数
type RecordsRequest struct {
	Query     string `json:"query"`
	SessionID string `json:"session_id,omitempty"`
}

// QueryHandler 查询处理器
type QueryHandler struct {
	assistant Assistant
}

// NewQueryHandler 创建查询处理器
func NewQueryHandler(assistant Assistant) *QueryHandler {
	return &QueryHandler{assistant: assistant}
}

// Query 执行一轮查询
// @Summary 提交物流查询
// @Tags 查询
// @Accept json
// @Produce json
// @Param body body QueryRequest true "查询"
// @Success 200 {object} appQuery.Answer
// @Failure 400 {object} response.ErrorResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /query [post]
func (h *QueryHandler) Query(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "invalid request: "+err.Error())
		return
	}

	answer, err := h.assistant.Ask(c.Request.Context(), req.SessionID, req.Query)
	if err != nil {
		response.QueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// Records 独立追问：只读取会话中已保存的上一轮结果
// @Summary 展示上一轮的支撑记录
// @Tags 查询
// @Accept json
// @Produce json
// @Param body body RecordsRequest true "追问"
// @Success 200 {object} appQuery.Answer
// @Failure 409 {object} response.ErrorResponse
// @Router /records [post]
func (h *QueryHandler) Records(c *gin.Context) {
	var req RecordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeInvalidRequest, "invalid request: "+err.Error())
		return
	}

	answer, err := h.assistant.ShowRecords(c.Request.Context(), req.SessionID, req.Query)
	if err != nil {
		response.QueryError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// GetSession 会话上下文概要
// @Router /sessions/{id} [get]
func (h *QueryHandler) GetSession(c *gin.Context) {
	summary, err := h.assistant.Session(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, response.CodeInternal, "failed to load session", err.Error())
		return
	}
	response.Success(c, summary)
}

// ResetSession 清空会话上下文
// @Router /sessions/{id} [delete]
func (h *QueryHandler) ResetSession(c *gin.Context) {
	sessionID := c.Param("id")
	if err := h.assistant.Reset(c.Request.Context(), sessionID); err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, response.CodeInternal, "failed to reset session", err.Error())
		return
	}
	response.Success(c, gin.H{"session_id": sessionID, "reset": true})
}
