package utils

import (
	"context"
	"log"
	"time"
)

// CleanupIdleLimiters xóa các bucket rate-limit không còn hoạt động
func CleanupIdleLimiters(l *IPRateLimiter, idle time.Duration) {
	if removed := l.Cleanup(idle); removed > 0 {
		log.Printf("Đã xóa %d rate-limit bucket không hoạt động", removed)
	}
}

// StartCleanupJob chạy cleanup job định kỳ cho tới khi ctx bị huỷ
func StartCleanupJob(ctx context.Context, l *IPRateLimiter, every time.Duration) {
	ticker := time.NewTicker(every)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				CleanupIdleLimiters(l, every)
			}
		}
	}()

	log.Printf("Cleanup job đã được khởi động (chạy mỗi %s)", every)
}
