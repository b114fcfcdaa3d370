package middleware

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/lifeos/backend/internal/interfaces/http/dto"
)

// CronTokenHeader carries the shared secret the scheduler sends
const CronTokenHeader = "X-Cron-Token"

// CronAuth guards the cron endpoints with a shared token. The comparison is
// constant time.
func CronAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Some schedulers cannot set headers, so the token is also
		// accepted as a query parameter.
		presented := c.GetHeader(CronTokenHeader)
		if presented == "" {
			presented = c.Query("token")
		}
		if token == "" || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid cron token"))
			return
		}
		c.Next()
	}
}

// CronDedup drops a cron invocation when the same job already ran inside the
// window. The scheduler retries aggressively; SETNX on Redis makes the runs
// effectively once per window. Redis being down fails open.
func CronDedup(client *redis.Client, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if client == nil {
			c.Next()
			return
		}
		key := "cron:ran:" + c.FullPath()
		ok, err := client.SetNX(c.Request.Context(), key, time.Now().Unix(), window).Result()
		if err == nil && !ok {
			c.AbortWithStatusJSON(http.StatusOK,
				dto.NewSuccessResponse(gin.H{"skipped": true}))
			return
		}
		c.Next()
	}
}
