package playout

import "time"

// TimerHandle is a cancellable pending expiry. The engine keeps at most
// one of these alive at a time.
type TimerHandle interface {
	Stop() bool
}

// TimerFactory creates single-shot delayed callbacks. Like Clock, it
// exists so tests can fire expiries by hand instead of sleeping.
type TimerFactory interface {
	AfterFunc(d time.Duration, fn func()) TimerHandle
}

type realTimers struct{}

func (realTimers) AfterFunc(d time.Duration, fn func()) TimerHandle {
	return time.AfterFunc(d, fn)
}
