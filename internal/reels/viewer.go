// Package reels implements the kinetic viewer used by the reel and story
// surfaces: a vertical-swipe state machine that turns pointer deltas,
// wheel input and playback ticks into discrete navigation between items,
// plus the simulated playback timer that drives progress bars and
// auto-advance.
package reels

import (
	"sync"
	"time"

	"github.com/worldwide-social/worldwide/internal/clock"
)

const (
	// SwipeThreshold is the drag distance in pixels below which a gesture
	// is inconclusive and reverts.
	SwipeThreshold = 80.0

	// WheelCommitDelta is the single scroll delta treated as an immediate
	// commit request on desktop.
	WheelCommitDelta = 50.0

	// commitSettle and cancelSettle are how long the animation lock stays
	// held after a committed or cancelled transition.
	commitSettle = 500 * time.Millisecond
	cancelSettle = 300 * time.Millisecond
)

// IndexListener observes committed transitions. It is invoked inside the
// commit with the viewer lock held, so by the time any queued input runs
// the new index is fully in place. Listeners must not call back into the
// Viewer.
type IndexListener func(oldIndex, newIndex int)

// Viewer is the swipe navigation state machine for an ordered item list.
//
// Invariants: activeIndex stays in [0, itemCount-1]; at most one committed
// transition is in flight (the animation lock); dragOffset resets to zero
// on every committed or cancelled transition.
type Viewer struct {
	mu  sync.Mutex
	clk clock.Clock

	activeIndex int
	dragOffset  float64
	isAnimating bool
	itemCount   int

	dragging bool
	startY   float64

	listeners []IndexListener
}

// NewViewer creates a viewer over itemCount items starting at index 0
func NewViewer(itemCount int, clk clock.Clock) *Viewer {
	if clk == nil {
		clk = clock.New()
	}
	if itemCount < 0 {
		itemCount = 0
	}
	return &Viewer{clk: clk, itemCount: itemCount}
}

// OnIndexChange registers a listener for committed transitions. Safe to
// call while gestures are in flight; commit reads listeners under the
// same lock.
func (v *Viewer) OnIndexChange(fn IndexListener) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.listeners = append(v.listeners, fn)
}

// ActiveIndex returns the current item index
func (v *Viewer) ActiveIndex() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.activeIndex
}

// DragOffset returns the in-progress gesture displacement
func (v *Viewer) DragOffset() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.dragOffset
}

// IsAnimating reports whether a transition is settling
func (v *Viewer) IsAnimating() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.isAnimating
}

// ItemCount returns the item list length
func (v *Viewer) ItemCount() int { return v.itemCount }

// GestureStart records the starting pointer coordinate. Ignored entirely
// while a transition is settling.
func (v *Viewer) GestureStart(y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.isAnimating {
		return
	}
	v.startY = y
	v.dragging = true
}

// GestureMove updates the drag offset from the current pointer coordinate
// so the view tracks the finger in real time
func (v *Viewer) GestureMove(y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.dragging || v.isAnimating {
		return
	}
	v.dragOffset = y - v.startY
}

// GestureEnd resolves the gesture: past the threshold it commits forward
// or backward, otherwise it cancels back to the current index. Navigation
// past either end of the list is rejected outright and falls through to
// the cancel path - no wraparound.
func (v *Viewer) GestureEnd() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.dragging || v.isAnimating {
		return
	}
	v.dragging = false

	switch {
	case v.dragOffset < -SwipeThreshold && v.activeIndex < v.itemCount-1:
		v.commit(v.activeIndex + 1)
	case v.dragOffset > SwipeThreshold && v.activeIndex > 0:
		v.commit(v.activeIndex - 1)
	default:
		v.cancel()
	}
}

// Wheel treats a large enough single scroll delta as an immediate commit
// request, subject to the same guard and boundary checks as a gesture end.
// Positive delta scrolls forward.
func (v *Viewer) Wheel(delta float64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.isAnimating {
		return
	}
	switch {
	case delta > WheelCommitDelta && v.activeIndex < v.itemCount-1:
		v.commit(v.activeIndex + 1)
	case delta < -WheelCommitDelta && v.activeIndex > 0:
		v.commit(v.activeIndex - 1)
	}
}

// Navigate commits a programmatic transition (pagination dot, auto-
// advance). Out-of-range targets are rejected silently; the animation
// lock applies as for gestures.
func (v *Viewer) Navigate(index int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.navigate(index)
}

// navigate is Navigate with v.mu held
func (v *Viewer) navigate(index int) {
	if v.isAnimating || index < 0 || index >= v.itemCount || index == v.activeIndex {
		return
	}
	v.commit(index)
}

// Advance moves one item forward through the commit path when a successor
// exists. Used by the playback timer on completion.
func (v *Viewer) Advance() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.navigate(v.activeIndex + 1)
}

// commit finalizes a transition: lock, reset offset, move the index,
// notify listeners, then release the lock after the settle duration. The
// lock is the sole serialization point between gesture callbacks, wheel
// input and timer auto-advance.
func (v *Viewer) commit(newIndex int) {
	old := v.activeIndex
	v.isAnimating = true
	v.dragOffset = 0
	v.dragging = false
	v.activeIndex = newIndex

	for _, fn := range v.listeners {
		fn(old, newIndex)
	}

	v.clk.AfterFunc(commitSettle, func() {
		v.mu.Lock()
		v.isAnimating = false
		v.mu.Unlock()
	})
}

// cancel animates the drag offset back to zero without changing the index
func (v *Viewer) cancel() {
	v.isAnimating = true
	v.dragOffset = 0

	v.clk.AfterFunc(cancelSettle, func() {
		v.mu.Lock()
		v.isAnimating = false
		v.mu.Unlock()
	})
}
