package singleton

import (
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndLock_PortAvailable(t *testing.T) {
	// 使用随机可用端口
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	result, err := CheckAndLock(addr)
	require.NoError(t, err)
	require.NotNil(t, result)
	defer result.Close()
}

func TestCheckAndLock_PortInUse_HealthyInstance(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","service":"logisense"}`))
	}))
	defer server.Close()

	result, err := CheckAndLock(strings.TrimPrefix(server.URL, "http://"))
	assert.ErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, result)
}

func TestCheckAndLock_PortInUse_UnhealthyInstance(t *testing.T) {
	// 占用端口但不提供健康检查
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer listener.Close()

	result, err := CheckAndLock(listener.Addr().String())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAlreadyRunning)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "health check failed")
}

func TestIsAddrInUse(t *testing.T) {
	l1, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l1.Close()

	_, err = net.Listen("tcp", l1.Addr().String())
	assert.True(t, isAddrInUse(err))

	_, err = net.Listen("tcp", "invalid")
	assert.False(t, isAddrInUse(err))
	assert.False(t, isAddrInUse(nil))
}

func TestHealthURL(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":8000", "http://localhost:8000/health"},
		{"0.0.0.0:8000", "http://localhost:8000/health"},
		{"127.0.0.1:9000", "http://127.0.0.1:9000/health"},
	}
	for _, tt := range tests {
		got, err := healthURL(tt.addr)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := healthURL("no-port")
	assert.Error(t, err)
}

func TestIsInstanceRunning_OtherService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok","service":"something-else"}`))
	}))
	defer server.Close()

	assert.False(t, isInstanceRunning(strings.TrimPrefix(server.URL, "http://")))
}
