package state

import "time"

const (
	// DefaultPollInterval matches the relay's expected sync cadence.
	DefaultPollInterval = 600 * time.Millisecond
	maxBackoff          = 30 * time.Second
)

// PollDelay returns how long to wait before the next sync tick. Each
// consecutive failure doubles the base interval, capped at maxBackoff. A
// failed request is never retried sooner than the next tick.
func PollDelay(failures int, base time.Duration) time.Duration {
	if base <= 0 {
		base = DefaultPollInterval
	}
	if failures <= 0 {
		return base
	}
	delay := base
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
