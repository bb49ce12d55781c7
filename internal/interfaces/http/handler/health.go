package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/logisense/backend/internal/infrastructure/singleton"
)

// Health 健康检查，service 字段供单例锁识别已运行的实例
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": singleton.ServiceName,
	})
}
