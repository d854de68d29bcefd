package animation

import (
	"sync"

	"github.com/pthm-cable/versefx/camera"
)

// Element is the host element the canvas is bound to.
type Element interface {
	// BoundingRect returns the element box in client pixels.
	BoundingRect() camera.Rect
	DevicePixelRatio() float64
}

// StaticElement is an Element with a fixed box, for headless hosts and tests.
// Fields may be changed between frames from the loop goroutine.
type StaticElement struct {
	Rect camera.Rect
	DPR  float64
}

func (e *StaticElement) BoundingRect() camera.Rect { return e.Rect }
func (e *StaticElement) DevicePixelRatio() float64 { return e.DPR }

type inputKind uint8

const (
	inputMove inputKind = iota
	inputDown
	inputLeave
	inputTouchStart
	inputTouchMove
	inputTouchEnd
)

type inputEvent struct {
	kind inputKind
	x, y float64 // client space
}

// maxQueuedInput bounds the queue while the loop is stopped.
const maxQueuedInput = 256

// inputQueue buffers pointer events from any goroutine until the next frame.
type inputQueue struct {
	mu     sync.Mutex
	events []inputEvent
}

func (q *inputQueue) push(ev inputEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) >= maxQueuedInput {
		// Drop the oldest; only the latest pointer state matters
		copy(q.events, q.events[1:])
		q.events = q.events[:len(q.events)-1]
	}
	q.events = append(q.events, ev)
}

// drain moves queued events into buf and returns it.
func (q *inputQueue) drain(buf []inputEvent) []inputEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	buf = append(buf[:0], q.events...)
	q.events = q.events[:0]
	return buf
}

// PointerMove records a mouse move at client coordinates.
func (e *Engine) PointerMove(cx, cy float64) { e.input.push(inputEvent{inputMove, cx, cy}) }

// PointerDown records a click. Spawns a ripple when interactive.
func (e *Engine) PointerDown(cx, cy float64) { e.input.push(inputEvent{inputDown, cx, cy}) }

// PointerLeave clears the active pointer.
func (e *Engine) PointerLeave() { e.input.push(inputEvent{kind: inputLeave}) }

// TouchStart records a touch. Spawns a ripple when interactive.
func (e *Engine) TouchStart(cx, cy float64) { e.input.push(inputEvent{inputTouchStart, cx, cy}) }

// TouchMove records a touch move.
func (e *Engine) TouchMove(cx, cy float64) { e.input.push(inputEvent{inputTouchMove, cx, cy}) }

// TouchEnd clears the active pointer.
func (e *Engine) TouchEnd() { e.input.push(inputEvent{kind: inputTouchEnd}) }

// applyInput drains queued events into the scene pointer and spawns ripples.
func (e *Engine) applyInput(interactive bool) {
	e.inputBuf = e.input.drain(e.inputBuf)
	for _, ev := range e.inputBuf {
		switch ev.kind {
		case inputLeave, inputTouchEnd:
			e.scene.Pointer.Active = false
			continue
		}

		x, y := e.viewport.ClientToCanvas(ev.x, ev.y)
		e.scene.Pointer.Position.X = x
		e.scene.Pointer.Position.Y = y
		e.scene.Pointer.Active = true

		if interactive && (ev.kind == inputDown || ev.kind == inputTouchStart) {
			e.spawnRipple(x, y)
		}
	}
}
