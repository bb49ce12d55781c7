package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// 业务错误码
const (
	CodeOK              = 0
	CodeInvalidRequest  = 400
	CodeNoPriorContext  = 409
	CodeInternal        = 500
	CodeUpstreamFailure = 503
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
	Stage   string `json:"stage,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeOK,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, message string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
	})
}

// ErrorWithDetail 带详情的错误响应
func ErrorWithDetail(c *gin.Context, httpCode int, errCode int, message, detail string) {
	c.JSON(httpCode, ErrorResponse{
		Code:    errCode,
		Message: message,
		Detail:  detail,
	})
}

// StatusFor 领域错误到 HTTP 状态码的映射
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domainQuery.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, domainQuery.ErrNoPriorContext):
		return http.StatusConflict
	case errors.Is(err, domainQuery.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// QueryError 查询类错误响应，附带失败阶段
func QueryError(c *gin.Context, err error) {
	status := StatusFor(err)
	resp := ErrorResponse{Code: status, Message: err.Error()}
	switch status {
	case http.StatusServiceUnavailable:
		resp.Message = "upstream service unavailable"
		resp.Detail = err.Error()
	case http.StatusInternalServerError:
		resp.Message = "query failed"
		resp.Detail = err.Error()
	}
	if stage, ok := domainQuery.FailedStage(err); ok {
		resp.Stage = string(stage)
	}
	c.JSON(status, resp)
}
