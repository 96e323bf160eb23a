package limiter

import (
	"context"

	"golang.org/x/time/rate"
)

// Giới hạn số lượng request trong 1 giây
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter cho phép tối đa maxRequests request mỗi giây, maxRequests <= 0 là không giới hạn
func NewRateLimiter(maxRequests int) *RateLimiter {
	if maxRequests <= 0 {
		return &RateLimiter{limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(maxRequests), maxRequests)}
}

// Check tra xem có thể thực hiện request mới hay không
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

// Wait chặn tới khi được phép gửi request hoặc ctx bị huỷ
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
