package reels

// The viewer itself is input-device-agnostic: every input source is
// adapted into one internal pointer-delta event type before it reaches
// the state machine.

// PointerPhase identifies where in a gesture an event sits
type PointerPhase int

const (
	PhaseStart PointerPhase = iota
	PhaseMove
	PhaseEnd
	PhaseWheel
)

// PointerEvent is the unified input event. Coord is the vertical pointer
// coordinate for start/move, unused for end, and the scroll delta for
// wheel events.
type PointerEvent struct {
	Phase PointerPhase
	Coord float64
}

// HandlePointer feeds a unified event into the state machine
func (v *Viewer) HandlePointer(ev PointerEvent) {
	switch ev.Phase {
	case PhaseStart:
		v.GestureStart(ev.Coord)
	case PhaseMove:
		v.GestureMove(ev.Coord)
	case PhaseEnd:
		v.GestureEnd()
	case PhaseWheel:
		v.Wheel(ev.Coord)
	}
}

// TouchPoint is a raw touch sample from the capture surface
type TouchPoint struct {
	X, Y float64
}

// TouchStart adapts a touch-start sample
func TouchStart(p TouchPoint) PointerEvent {
	return PointerEvent{Phase: PhaseStart, Coord: p.Y}
}

// TouchMove adapts a touch-move sample
func TouchMove(p TouchPoint) PointerEvent {
	return PointerEvent{Phase: PhaseMove, Coord: p.Y}
}

// TouchEnd adapts the end of a touch sequence
func TouchEnd() PointerEvent {
	return PointerEvent{Phase: PhaseEnd}
}

// MouseDown adapts a mouse press at vertical coordinate y
func MouseDown(y float64) PointerEvent {
	return PointerEvent{Phase: PhaseStart, Coord: y}
}

// MouseMove adapts a mouse drag at vertical coordinate y
func MouseMove(y float64) PointerEvent {
	return PointerEvent{Phase: PhaseMove, Coord: y}
}

// MouseUp adapts a mouse release
func MouseUp() PointerEvent {
	return PointerEvent{Phase: PhaseEnd}
}

// WheelScroll adapts a discrete wheel delta (positive scrolls forward)
func WheelScroll(deltaY float64) PointerEvent {
	return PointerEvent{Phase: PhaseWheel, Coord: deltaY}
}
