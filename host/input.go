package host

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/versefx/camera"
	"github.com/pthm-cable/versefx/components"
)

// windowElement reports the raylib window as the canvas element.
type windowElement struct{}

func (windowElement) BoundingRect() camera.Rect {
	return camera.Rect{Width: float64(rl.GetScreenWidth()), Height: float64(rl.GetScreenHeight())}
}

// DevicePixelRatio is the render-to-screen scale, 1 without HiDPI.
func (windowElement) DevicePixelRatio() float64 {
	sw := rl.GetScreenWidth()
	if sw <= 0 {
		return 1
	}
	return float64(rl.GetRenderWidth()) / float64(sw)
}

// handleInput processes keyboard input and forwards the pointer.
func (h *Host) handleInput() {
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		h.paused = !h.paused
		if h.paused {
			h.manager.Stop()
		} else {
			h.manager.Start()
		}
	}

	// Toggle pointer interaction
	if rl.IsKeyPressed(rl.KeyI) {
		interactive := !h.manager.Config().Interactive
		h.manager.UpdateConfig(components.ConfigPatch{Interactive: &interactive})
	}

	for key := rl.GetKeyPressed(); key != 0; key = rl.GetKeyPressed() {
		h.panels.HandleKeyPress(key)
	}

	h.forwardPointer()
}

// forwardPointer translates raylib mouse and touch state into engine
// pointer events. Clicks on UI panels are not forwarded.
func (h *Host) forwardPointer() {
	engine := h.manager.Engine()
	if engine == nil {
		return
	}

	if rl.GetTouchPointCount() > 0 {
		p := rl.GetTouchPosition(0)
		if !h.touching {
			h.touching = true
			if !h.overUI(p) {
				engine.TouchStart(float64(p.X), float64(p.Y))
			}
		} else {
			engine.TouchMove(float64(p.X), float64(p.Y))
		}
		return
	}
	if h.touching {
		h.touching = false
		engine.TouchEnd()
	}

	if !rl.IsCursorOnScreen() {
		if h.pointerInside {
			h.pointerInside = false
			engine.PointerLeave()
		}
		return
	}

	pos := rl.GetMousePosition()
	if !h.pointerInside || pos.X != h.lastPointer[0] || pos.Y != h.lastPointer[1] {
		h.pointerInside = true
		h.lastPointer = [2]float32{pos.X, pos.Y}
		engine.PointerMove(float64(pos.X), float64(pos.Y))
	}
	if rl.IsMouseButtonPressed(rl.MouseButtonLeft) && !h.overUI(pos) {
		engine.PointerDown(float64(pos.X), float64(pos.Y))
	}
}
