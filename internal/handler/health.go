package handler

import (
	"context"
	"net/http"
	"time"

	"minimercado/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health answers GET /health. A failing database or a configured but
// unreachable redis turn it into a 503; dead-lettered jobs are only reported.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		resp := gin.H{"db": "connected", "redis": "disabled"}
		sano := true

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			resp["db"] = "error"
			sano = false
		}

		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				resp["redis"] = "error"
				sano = false
			} else {
				resp["redis"] = "connected"
				dlq := gin.H{}
				for _, q := range []string{worker.QueueTicket, worker.QueueEmail} {
					if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
						dlq[q] = n
					}
				}
				resp["dlq"] = dlq
			}
		}

		status := http.StatusOK
		if !sano {
			status = http.StatusServiceUnavailable
		}
		resp["success"] = sano
		c.JSON(status, resp)
	}
}
