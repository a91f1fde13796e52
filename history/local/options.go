package local

import (
	"context"
	"time"

	"github.com/w-h-a/docchat/history"
)

type clockKey struct{}

type janitorKey struct{}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) history.Option {
	return func(o *history.Options) {
		o.Context = context.WithValue(o.Context, clockKey{}, now)
	}
}

func ClockFrom(ctx context.Context) (func() time.Time, bool) {
	now, ok := ctx.Value(clockKey{}).(func() time.Time)
	return now, ok
}

// WithJanitorInterval sets how often expired sessions are swept. Zero disables the sweep.
func WithJanitorInterval(d time.Duration) history.Option {
	return func(o *history.Options) {
		o.Context = context.WithValue(o.Context, janitorKey{}, d)
	}
}

func JanitorIntervalFrom(ctx context.Context) (time.Duration, bool) {
	d, ok := ctx.Value(janitorKey{}).(time.Duration)
	return d, ok
}
