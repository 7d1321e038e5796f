package clock

import (
	"sync"
	"time"
)

// Fake is a manually advanced Clock for tests. Callbacks scheduled with
// AfterFunc run synchronously inside Advance once their deadline passes;
// tickers emit one tick per elapsed interval.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

// NewFake creates a fake clock starting at a fixed instant
func NewFake() *Fake {
	return &Fake{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTimer{
		clock:    f,
		deadline: f.now.Add(d),
		fn:       fn,
	}
	f.timers = append(f.timers, t)
	return t
}

func (f *Fake) NewTimer(d time.Duration) ChanTimer {
	ch := make(chan time.Time, 1)
	ct := &fakeChanTimer{ch: ch}
	ct.timer = f.AfterFunc(d, func() {
		select {
		case ch <- f.Now():
		default:
		}
	}).(*fakeTimer)
	return ct
}

func (f *Fake) NewTicker(d time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTicker{
		ch:       make(chan time.Time, 64),
		interval: d,
		next:     f.now.Add(d),
	}
	f.tickers = append(f.tickers, t)
	return t
}

// Advance moves the clock forward, firing due timers in deadline order and
// emitting ticker ticks. Timer callbacks run on the caller's goroutine.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	for {
		idx := -1
		for i, t := range f.timers {
			if t.stopped || t.deadline.After(target) {
				continue
			}
			if idx == -1 || t.deadline.Before(f.timers[idx].deadline) {
				idx = i
			}
		}
		if idx == -1 {
			break
		}

		t := f.timers[idx]
		f.timers = append(f.timers[:idx], f.timers[idx+1:]...)
		if t.deadline.After(f.now) {
			f.now = t.deadline
		}
		f.mu.Unlock()
		t.fn()
		f.mu.Lock()
	}

	f.now = target

	for _, tk := range f.tickers {
		if tk.stopped {
			continue
		}
		for !tk.next.After(target) {
			select {
			case tk.ch <- tk.next:
			default: // slow consumer drops ticks, same as time.Ticker
			}
			tk.next = tk.next.Add(tk.interval)
		}
	}
	f.mu.Unlock()
}

// PendingTimers reports how many AfterFunc callbacks are still scheduled
func (f *Fake) PendingTimers() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, t := range f.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

type fakeTimer struct {
	clock    *Fake
	deadline time.Time
	fn       func()
	stopped  bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	was := !t.stopped
	t.stopped = true
	return was
}

type fakeChanTimer struct {
	ch    chan time.Time
	timer *fakeTimer
}

func (t *fakeChanTimer) C() <-chan time.Time {
	return t.ch
}

func (t *fakeChanTimer) Stop() bool {
	return t.timer.Stop()
}

type fakeTicker struct {
	ch       chan time.Time
	interval time.Duration
	next     time.Time
	stopped  bool
}

func (t *fakeTicker) Chan() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.stopped = true
}

var _ Clock = (*Fake)(nil)
