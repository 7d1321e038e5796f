package reels

import (
	"context"
	"sync"
	"time"

	"github.com/worldwide-social/worldwide/internal/clock"
)

const (
	// TickInterval is the playback timer resolution
	TickInterval = 100 * time.Millisecond

	// ReelDuration is the simulated watch time per reel
	ReelDuration = 15 * time.Second

	// StoryDuration is the simulated watch time per story frame
	StoryDuration = 5 * time.Second
)

// CompletionFunc is called exactly once per item activation when simulated
// playback reaches 100%, with the index of the finished item. This is
// where the view-completion engagement gets recorded.
type CompletionFunc func(index int)

// Playback drives the simulated watch progress for the viewer's active
// item. Exactly one timer is live per active item: every committed
// transition resets elapsed time and progress before the next tick can
// run, so a stale tick can never touch a no-longer-active item.
type Playback struct {
	mu     sync.Mutex
	viewer *Viewer

	duration   time.Duration
	elapsed    time.Duration
	progress   float64
	completed  bool
	onComplete CompletionFunc
}

// NewPlayback wires a playback timer to a viewer. duration is the
// per-item total (ReelDuration or StoryDuration).
func NewPlayback(v *Viewer, duration time.Duration, onComplete CompletionFunc) *Playback {
	p := &Playback{
		viewer:     v,
		duration:   duration,
		onComplete: onComplete,
	}
	v.OnIndexChange(func(oldIndex, newIndex int) {
		p.reset()
	})
	return p
}

// reset tears the current timer state down for a newly active item
func (p *Playback) reset() {
	p.mu.Lock()
	p.elapsed = 0
	p.progress = 0
	p.completed = false
	p.mu.Unlock()
}

// Progress returns the current watch progress in [0, 100]
func (p *Playback) Progress() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.progress
}

// Elapsed returns the elapsed watch time for the active item
func (p *Playback) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.elapsed
}

// Tick advances simulated playback by one interval. When progress reaches
// 100 it fires the completion callback once, then auto-advances through
// the same commit path as a forward gesture when a later item exists;
// on the last item progress saturates at 100.
func (p *Playback) Tick() {
	p.mu.Lock()

	if p.progress < 100 {
		p.elapsed += TickInterval
		p.progress = float64(p.elapsed) / float64(p.duration) * 100
		if p.progress > 100 {
			p.progress = 100
		}
	}

	fire := p.progress >= 100 && !p.completed
	if fire {
		p.completed = true
	}
	done := p.progress >= 100
	p.mu.Unlock()

	index := p.viewer.ActiveIndex()

	if fire && p.onComplete != nil {
		p.onComplete(index)
	}

	// The advance goes through the guarded commit path; if the viewer is
	// mid-transition the attempt is dropped and retried on the next tick.
	if done && index < p.viewer.ItemCount()-1 {
		p.viewer.Advance()
	}
}

// Run drives the timer off a real (or fake) clock until the context is
// cancelled. The ticker is stopped on every exit path.
func (p *Playback) Run(ctx context.Context, clk clock.Clock) {
	if clk == nil {
		clk = clock.New()
	}
	ticker := clk.NewTicker(TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			p.Tick()
		case <-ctx.Done():
			return
		}
	}
}
