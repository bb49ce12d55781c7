//go:build integration
// +build integration

// TestDaemon 以子进程方式运行服务，使用隔离的数据目录与端口
package framework

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// TestDaemon 测试用服务进程
type TestDaemon struct {
	Name     string
	HTTPPort int
	DataDir  string

	cmd     *exec.Cmd
	env     map[string]string
	baseURL string
}

// DaemonOption 服务进程配置选项
type DaemonOption func(*TestDaemon)

// WithUpstream 将 LLM 与 Embedding 指向同一个假上游
func WithUpstream(u *FakeUpstream) DaemonOption {
	return func(d *TestDaemon) {
		d.env["LLM_API_URL"] = u.URL()
		d.env["EMBEDDING_API_URL"] = u.URL()
		d.env["OPENROUTER_API_KEY"] = "test-key"
	}
}

// WithQdrant 指定 Qdrant gRPC 地址
func WithQdrant(host, port string) DaemonOption {
	return func(d *TestDaemon) {
		d.env["QDRANT_HOST"] = host
		d.env["QDRANT_PORT"] = port
	}
}

// WithEnv 设置任意环境变量
func WithEnv(key, value string) DaemonOption {
	return func(d *TestDaemon) {
		d.env[key] = value
	}
}

// NewTestDaemon 创建测试服务进程
func NewTestDaemon(binaryPath, name string, opts ...DaemonOption) (*TestDaemon, error) {
	httpPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate HTTP port: %w", err)
	}
	// 默认指向一个没有监听的端口，检索阶段必然失败
	deadPort, err := getFreePort()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate Qdrant port: %w", err)
	}

	dataDir, err := os.MkdirTemp("", fmt.Sprintf("logisense-test-%s-", name))
	if err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	d := &TestDaemon{
		Name:     name,
		HTTPPort: httpPort,
		DataDir:  dataDir,
		baseURL:  fmt.Sprintf("http://localhost:%d", httpPort),
		env: map[string]string{
			"LOGISENSE_DATA_DIR":   dataDir,
			"LOGISENSE_HTTP_PORT":  fmt.Sprintf(":%d", httpPort),
			"LOGISENSE_PUBLIC_URL": fmt.Sprintf("http://localhost:%d/static", httpPort),
			"QDRANT_HOST":          "127.0.0.1",
			"QDRANT_PORT":          strconv.Itoa(deadPort),
			"SESSION_STORE":        "memory",
			"GIN_MODE":             "test",
		},
	}

	for _, opt := range opts {
		opt(d)
	}

	d.cmd = exec.Command(binaryPath)
	d.cmd.Env = os.Environ()
	for k, v := range d.env {
		d.cmd.Env = append(d.cmd.Env, fmt.Sprintf("%s=%s", k, v))
	}
	d.cmd.Stdout = os.Stdout
	d.cmd.Stderr = os.Stderr

	return d, nil
}

// Start 启动服务并等待就绪
func (d *TestDaemon) Start() error {
	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon %s: %w", d.Name, err)
	}
	return d.waitForReady(30 * time.Second)
}

// Stop 停止服务并清理数据目录
func (d *TestDaemon) Stop() error {
	if d.cmd.Process != nil {
		_ = d.cmd.Process.Signal(os.Interrupt)

		done := make(chan error, 1)
		go func() {
			done <- d.cmd.Wait()
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			_ = d.cmd.Process.Kill()
			<-done
		}
	}
	return os.RemoveAll(d.DataDir)
}

// BaseURL 返回 HTTP 基础 URL
func (d *TestDaemon) BaseURL() string {
	return d.baseURL
}

// waitForReady 等待 health 端点就绪
func (d *TestDaemon) waitForReady(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(d.baseURL + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(200 * time.Millisecond)
	}
	return fmt.Errorf("daemon %s failed to become ready within %v", d.Name, timeout)
}

// getFreePort 获取一个空闲的 TCP 端口
func getFreePort() (int, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer listener.Close()
	return listener.Addr().(*net.TCPAddr).Port, nil
}
