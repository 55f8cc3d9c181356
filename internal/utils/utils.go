package utils

import (
	"context"
	"strings"
	"time"
)

// startTimer returns the channel that fires after d and a func that stops it.
var startTimer = func(d time.Duration) (<-chan time.Time, func() bool) {
	t := time.NewTimer(d)
	return t.C, t.Stop
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// WaitFor blocks for d or until ctx is done.
func WaitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	fired, stop := startTimer(d)

	select {
	case <-ctx.Done():
		stop()
		return ctx.Err()
	case <-fired:
		return nil
	}
}
