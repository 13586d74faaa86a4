package sim

import (
	"context"
	"time"
)

// Pump fires the board's timers every interval until ctx is cancelled.
// It stands in for the hardware timer interrupt when the node runs on
// a workstation.
func (b *Board) Pump(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			b.FireTimers()
		}
	}
}
