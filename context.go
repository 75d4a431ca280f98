package middleman

import (
	"context"
	"time"
)

// Context is just an alias for the standard implementation.
// We use functions to extract data from the context, so
// we don't need to know the details here. Maybe this should
// be more limited, by exposing a subset of the functions?
type Context = context.Context

type contextKey int

const (
	contextKeyTime contextKey = iota
)

// WithBlockTime sets the current time for the execution context. Every
// operation evaluates its time preconditions against this value.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t)
}

// BlockTime returns the current time as declared for this execution
// context.
func BlockTime(ctx Context) (time.Time, bool) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	return val, ok
}

// IsExpired returns true if given time is in the past as compared to the "now"
// as declared for the context. Expiration is inclusive, meaning that if
// current time is equal to the expiration time than this function returns
// true.
//
// This function panics if the current time is not present in the context. A
// context without a clock must never process time-gated operations.
func IsExpired(ctx Context, t UnixTime) bool {
	now, ok := BlockTime(ctx)
	if !ok {
		panic("block time is not present")
	}
	return t <= AsUnixTime(now)
}

// InThePast returns true if given time is in the past compared to the current
// time as declared in the context.
// Keep in mind that this function is not inclusive of current time. If given
// time is equal to "now" then this function returns false.
func InThePast(ctx Context, t time.Time) bool {
	now, ok := BlockTime(ctx)
	if !ok {
		panic("block time is not present")
	}
	return t.Before(now)
}
