package query

import (
	"context"
	"errors"
	"net"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	domainQuery "github.com/logisense/backend/internal/domain/query"
)

// asUpstream 将超时与传输层失败归类为 ErrUpstreamUnavailable，其余错误原样返回
func asUpstream(service string, err error) error {
	if err == nil || errors.Is(err, domainQuery.ErrUpstreamUnavailable) {
		return err
	}
	if isUpstreamFailure(err) {
		return domainQuery.NewUpstreamError(service, err)
	}
	return err
}

func isUpstreamFailure(err error) bool {
	// 调用方主动取消不是上游故障
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	// *url.Error 与拨号错误均实现 net.Error
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// 5xx / 429
	var temp interface{ Temporary() bool }
	if errors.As(err, &temp) && temp.Temporary() {
		return true
	}

	// Qdrant gRPC
	if s, ok := status.FromError(err); ok {
		switch s.Code() {
		case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted:
			return true
		}
	}
	return false
}
