// ABOUTME: Reconnect backoff schedule for the bridge client
// ABOUTME: Exponential delay doubling per failed attempt, capped at 30s
package bridge

import "time"

const (
	backoffBase = 1 * time.Second
	backoffCap  = 30 * time.Second
)

// backoffDelay returns the reconnect delay for the given failure attempt.
// Attempts count from 1, so the first retry waits 2s, then 4s, 8s, 16s,
// and 30s from the fifth failure on.
func backoffDelay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 5 {
		return backoffCap
	}
	d := backoffBase << uint(attempt)
	if d > backoffCap {
		d = backoffCap
	}
	return d
}
