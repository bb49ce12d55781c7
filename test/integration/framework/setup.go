//go:build integration
// +build integration

// 测试框架的全局设置和清理
package framework

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

var (
	// BinaryPath 编译后的服务二进制路径
	BinaryPath string
)

// BuildDaemon 编译 logisense-server 二进制（在 TestMain 中调用一次）
func BuildDaemon() error {
	_, currentFile, _, _ := runtime.Caller(0)
	backendDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "..")

	tmpDir, err := os.MkdirTemp("", "logisense-test-bin-")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}

	binaryName := "logisense-server"
	if runtime.GOOS == "windows" {
		binaryName += ".exe"
	}
	BinaryPath = filepath.Join(tmpDir, binaryName)

	cmd := exec.Command("go", "build", "-o", BinaryPath, "./cmd/server")
	cmd.Dir = backendDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build server binary: %w", err)
	}
	return nil
}

// Cleanup 清理构建的二进制（在 TestMain 结束时调用）
func Cleanup() {
	if BinaryPath != "" {
		os.RemoveAll(filepath.Dir(BinaryPath))
	}
}

// RequireDaemonBinary 检查二进制是否已构建
func RequireDaemonBinary(t *testing.T) {
	t.Helper()
	if BinaryPath == "" {
		t.Fatal("server binary not built, call BuildDaemon() in TestMain first")
	}
	if _, err := os.Stat(BinaryPath); os.IsNotExist(err) {
		t.Fatal("server binary not found at: " + BinaryPath)
	}
}

// RealQdrant 返回外部 Qdrant 地址（QDRANT_TEST_HOST / QDRANT_TEST_PORT），未设置时跳过测试
func RealQdrant(t *testing.T) (string, string) {
	t.Helper()
	host := os.Getenv("QDRANT_TEST_HOST")
	if host == "" {
		t.Skip("QDRANT_TEST_HOST not set, skipping test against a real Qdrant")
	}
	port := os.Getenv("QDRANT_TEST_PORT")
	if port == "" {
		port = "6334"
	}
	return host, port
}
