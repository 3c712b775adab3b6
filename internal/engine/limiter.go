package engine

import (
	"context"
	"math/rand"
	"time"
)

// replyDelay picks a uniform random delay within [minSec, maxSec] seconds.
// The jitter keeps reply timing from looking mechanical.
func replyDelay(minSec, maxSec int) time.Duration {
	if minSec < 0 {
		minSec = 0
	}
	if maxSec < minSec {
		maxSec = minSec
	}
	spanMS := (maxSec - minSec) * 1000
	ms := minSec * 1000
	if spanMS > 0 {
		ms += rand.Intn(spanMS + 1)
	}
	return time.Duration(ms) * time.Millisecond
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
// Returns the context error when interrupted.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
