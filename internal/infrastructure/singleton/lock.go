package singleton

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"
	"time"
)

const (
	// ServiceName /health 响应中的服务名
	ServiceName = "logisense"
	// HealthCheckTimeout 健康检查超时时间
	HealthCheckTimeout = 2 * time.Second
)

// ErrAlreadyRunning 端口上已有健康的 logisense 实例
var ErrAlreadyRunning = errors.New("another logisense instance is already running")

// CheckAndLock 占用 HTTP 端口作为进程锁
// 端口被另一个健康实例占用时返回 ErrAlreadyRunning，调用方应直接退出
func CheckAndLock(addr string) (net.Listener, error) {
	listener, err := net.Listen("tcp", addr)
	if err == nil {
		return listener, nil
	}

	if !isAddrInUse(err) {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	if isInstanceRunning(addr) {
		return nil, ErrAlreadyRunning
	}
	return nil, fmt.Errorf("port %s is in use by another process (health check failed)", addr)
}

// isAddrInUse 检查错误是否是地址已在使用
func isAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}

	// Windows: WSAEADDRINUSE (10048)
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == 10048
	}
	return false
}

// healthURL 由监听地址推导健康检查 URL，空主机视为本机
func healthURL(addr string) (string, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", err
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s/health", net.JoinHostPort(host, port)), nil
}

// isInstanceRunning 检查端口上是否为健康的 logisense 实例
func isInstanceRunning(addr string) bool {
	url, err := healthURL(addr)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: HealthCheckTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var body struct {
		Service string `json:"service"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false
	}
	return body.Service == ServiceName
}
