// Package clock abstracts time so the gesture settle lock, playback
// ticker and generation polling loop can be driven by a fake clock in
// tests without real delays.
package clock

import "time"

// Clock is the time source injected into time-dependent components
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
	NewTimer(d time.Duration) ChanTimer
	NewTicker(d time.Duration) Ticker
}

// Timer is a cancellable pending callback
type Timer interface {
	Stop() bool
}

// ChanTimer fires once on its channel
type ChanTimer interface {
	C() <-chan time.Time
	Stop() bool
}

// Ticker delivers periodic ticks until stopped
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// New returns a Clock backed by the system clock
func New() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) NewTimer(d time.Duration) ChanTimer {
	return systemTimer{time.NewTimer(d)}
}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{time.NewTicker(d)}
}

type systemTimer struct {
	t *time.Timer
}

func (st systemTimer) C() <-chan time.Time {
	return st.t.C
}

func (st systemTimer) Stop() bool {
	return st.t.Stop()
}

type systemTicker struct {
	t *time.Ticker
}

func (st systemTicker) Chan() <-chan time.Time {
	return st.t.C
}

func (st systemTicker) Stop() {
	st.t.Stop()
}
