package tasks

import (
	"context"
	"time"
)

// every runs fn immediately and then again interval after each run returns,
// until ctx is done. A slow fn delays its own next run and nothing else.
func every(ctx context.Context, interval time.Duration, fn func(context.Context)) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		fn(ctx)
		timer.Reset(interval)
	}
}
