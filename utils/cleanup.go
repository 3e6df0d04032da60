package utils

import (
	"log"
	"time"

	"github.com/fanzhub/fanzhub/config"
	"github.com/fanzhub/fanzhub/models"
)

// StartNotificationJanitor launches a background goroutine that periodically
// deletes read notifications older than the retention window. Best-effort.
func StartNotificationJanitor(interval, retention time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	if retention <= 0 {
		retention = 30 * 24 * time.Hour
	}
	go func() {
		for {
			// Sleep first to avoid racing immediately at startup
			time.Sleep(interval)
			db := config.DB()
			if db == nil {
				continue
			}
			cutoff := time.Now().Add(-retention)
			res := db.Where("`read` = ? AND created_at < ?", true, cutoff).
				Limit(1000).
				Delete(&models.Notification{})
			if res.Error != nil {
				log.Printf("notification janitor delete failed: %v", res.Error)
				continue
			}
			if res.RowsAffected > 0 && Sugar != nil {
				Sugar.Debugf("notification janitor purged %d rows", res.RowsAffected)
			}
		}
	}()
}
