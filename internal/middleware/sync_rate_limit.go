package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SyncRateLimit 全局同步限流中间件
//
//	router.POST("/api/rates/sync",
//	    middleware.SyncRateLimit(middleware.SyncTypeRate, 0),
//	    rateCtl.Sync,
//	)
//
// interval 为 0 时使用默认值
func SyncRateLimit(syncType SyncType, interval time.Duration) gin.HandlerFunc {
	if interval == 0 {
		interval = GetInterval(syncType)
	}

	return func(c *gin.Context) {
		result := GetLimiter().Check(GlobalSyncKey(syncType), interval)
		if !result.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    429,
				"message": formatRetryMessage(result.RetryAfter),
				"data": gin.H{
					"retry_after": int(result.RetryAfter.Seconds()),
					"sync_type":   syncType,
				},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// MarkSyncExecuted 标记同步已执行
func MarkSyncExecuted(syncType SyncType) {
	GetLimiter().MarkExecuted(GlobalSyncKey(syncType))
}

// ResetSyncLimit 重置同步限流
func ResetSyncLimit(syncType SyncType) {
	GetLimiter().Reset(GlobalSyncKey(syncType))
}

// formatRetryMessage 格式化重试提示信息
func formatRetryMessage(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 60 {
		return fmt.Sprintf("sync is cooling down, retry in %d seconds", seconds)
	}

	minutes := seconds / 60
	if rest := seconds % 60; rest != 0 {
		return fmt.Sprintf("sync is cooling down, retry in %d min %d s", minutes, rest)
	}
	return fmt.Sprintf("sync is cooling down, retry in %d minutes", minutes)
}
