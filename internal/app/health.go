package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"task-service/internal/logger"
)

// healthHandler probes both backing stores. Either one being down
// degrades the service but does not kill the probe itself.
func healthHandler(infra *Infra) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := "ok"
		services := gin.H{
			"api": gin.H{"status": "healthy"},
		}

		start := time.Now()
		if err := infra.DB.PingContext(c.Request.Context()); err != nil {
			logger.Error("health: postgresql check failed", map[string]any{
				"error": err.Error(),
			})
			services["postgresql"] = gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			status = "degraded"
		} else {
			services["postgresql"] = gin.H{
				"status":       "healthy",
				"responseTime": fmt.Sprintf("%.2fms", float64(time.Since(start).Microseconds())/1000),
			}
		}

		start = time.Now()
		if err := infra.Redis.Ping(c.Request.Context()).Err(); err != nil {
			logger.Error("health: redis check failed", map[string]any{
				"error": err.Error(),
			})
			services["redis"] = gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			}
			status = "degraded"
		} else {
			services["redis"] = gin.H{
				"status":       "healthy",
				"responseTime": fmt.Sprintf("%.2fms", float64(time.Since(start).Microseconds())/1000),
			}
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"services":  services,
		})
	}
}
