package voucher

import (
	"context"
	"fmt"
	"time"

	"voucher-console/internal/pkg/clock"
)

const ExpiredLabel = "Expired"

// Remaining formats the time left until expiresAt as "{h}h {m}m {s}s", each unit floored from the
// exact millisecond difference. It returns "Expired" once now has reached expiresAt.
func Remaining(now, expiresAt time.Time) string {
	diff := expiresAt.Sub(now)
	if diff <= 0 {
		return ExpiredLabel
	}
	ms := diff.Milliseconds()
	hours := ms / int64(time.Hour/time.Millisecond)
	minutes := (ms % int64(time.Hour/time.Millisecond)) / int64(time.Minute/time.Millisecond)
	seconds := (ms % int64(time.Minute/time.Millisecond)) / int64(time.Second/time.Millisecond)
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

const DefaultTick = time.Second

// Countdown republishes Remaining on a fixed tick.
type Countdown struct {
	clock clock.Clock
	tick  time.Duration
}

func NewCountdown(clk clock.Clock, tick time.Duration) *Countdown {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Countdown{clock: clk, tick: tick}
}

// Run publishes immediately and then once per tick until ctx is done or "Expired" has been
// published. A nil expiry publishes nothing. The ticker is released before Run returns.
func (c *Countdown) Run(ctx context.Context, expiresAt *time.Time, publish func(string)) {
	if expiresAt == nil {
		return
	}
	if c.emit(*expiresAt, publish) {
		return
	}

	ticker := time.NewTicker(c.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if c.emit(*expiresAt, publish) {
				return
			}
		}
	}
}

func (c *Countdown) emit(expiresAt time.Time, publish func(string)) (done bool) {
	text := Remaining(c.clock.Now(), expiresAt)
	publish(text)
	return text == ExpiredLabel
}
