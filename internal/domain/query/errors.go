package query

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery 查询为空
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrUpstreamUnavailable 检索或生成服务不可达/超时
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrClassificationFailed 分类失败（仅在 fail 模式下中止流水线）
	ErrClassificationFailed = errors.New("classification failed")
	// ErrNoPriorContext 追问时会话中没有上一轮结果
	ErrNoPriorContext = errors.New("no previous query context found, please run a primary query first")
	// ErrTooManyDocuments 传给 Synthesizer 的文档超过上限
	ErrTooManyDocuments = errors.New("too many grounding documents")
)

// StageError 记录失败的流水线阶段
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// UpstreamError 上游服务错误，errors.Is(err, ErrUpstreamUnavailable) 为真
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() []error {
	return []error{ErrUpstreamUnavailable, e.Err}
}

// NewUpstreamError 包装上游错误
func NewUpstreamError(service string, err error) error {
	return &UpstreamError{Service: service, Err: err}
}

// FailedStage 从错误链中取出失败阶段
func FailedStage(err error) (Stage, bool) {
	var stageErr *StageError
	if errors.As(err, &stageErr) {
		return stageErr.Stage, true
	}
	return "", false
}
