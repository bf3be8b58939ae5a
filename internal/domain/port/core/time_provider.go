package core

import (
	"context"
	"time"
)

// TimeProvider abstracts clock access so entities and use cases stay
// deterministic under test.
type TimeProvider interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	Sleep(d time.Duration)
	WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc)
}
