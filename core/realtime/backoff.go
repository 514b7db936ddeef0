package realtime

import "time"

// backoffDelay computes the reconnect delay for the given 1-based attempt:
// base doubled per attempt, capped at ceiling. Kept a pure function of its
// inputs so the policy is testable without timers.
func backoffDelay(attempt int, base, ceiling time.Duration) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	delay := base
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= ceiling {
			return ceiling
		}
	}
	if delay > ceiling {
		return ceiling
	}
	return delay
}

// ReconnectPolicy bounds automatic reconnection for one client instance. The
// attempt counter resets on every successful open.
type ReconnectPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	DelayCap    time.Duration
}

func defaultReconnectPolicy() ReconnectPolicy {
	return ReconnectPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		DelayCap:    30 * time.Second,
	}
}

// Delay reports the backoff delay before the given 1-based attempt.
func (p ReconnectPolicy) Delay(attempt int) time.Duration {
	return backoffDelay(attempt, p.BaseDelay, p.DelayCap)
}
