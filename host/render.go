package host

import (
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/ui"
)

const (
	panelMargin = 10
	hudWidth    = 300
	perfWidth   = 300
	ctrlWidth   = 330
)

func (h *Host) initUI() {
	h.panels = ui.NewPanelRegistry()
	h.hud = ui.NewHUD(panelMargin, panelMargin, hudWidth)
	h.perfPanel = ui.NewPerfPanel(panelMargin, 200, perfWidth)
	h.controls = ui.NewControlsPanel(0, panelMargin, ctrlWidth)
	h.help = ui.NewHelpPanel(0, panelMargin, ctrlWidth)
}

// Update processes input and pending backend results.
func (h *Host) Update() {
	h.applyPoem()
	h.handleInput()
}

// Draw runs one frame of the animation and the UI on top of it.
func (h *Host) Draw() {
	now := time.Now()

	rl.BeginDrawing()
	h.surface.Begin()
	ran := h.loop.Tick(now)
	h.surface.End()
	if ran == 0 {
		// Paused or stopped: nothing cleared the frame
		rl.ClearBackground(background)
	}

	h.drawUI()
	rl.EndDrawing()

	h.frame++
	h.maybeLogPerf(now)
}

func (h *Host) drawUI() {
	screenW := int32(rl.GetScreenWidth())
	screenH := int32(rl.GetScreenHeight())
	tc, _ := h.manager.Theme()

	y := int32(panelMargin)
	if h.panels.IsEnabled(ui.PanelHUD) {
		metrics, _ := h.manager.PerformanceMetrics()
		y = h.hud.Draw(ui.HUDData{
			Title:   h.cfg.Screen.Title,
			Theme:   tc,
			Metrics: metrics,
			Device:  h.manager.Capabilities(),
			GPU:     h.manager.Config().WebGL,
			Status:  h.status,
		}) + panelMargin
	}
	if h.panels.IsEnabled(ui.PanelPerf) {
		h.perfPanel.SetPosition(panelMargin, y)
		h.perfPanel.Draw(h.perf.Stats())
	}

	right := screenW - ctrlWidth - panelMargin
	if h.panels.IsEnabled(ui.PanelControls) {
		h.controls.SetPosition(right, panelMargin)
		res := h.controls.Draw(tc, h.manager.Config().Speed)
		if res.ThemeChanged {
			if err := h.manager.SetTheme(res.Theme.Theme, res.Theme.Mood, res.Theme.Intensity); err != nil {
				h.logger.Error("failed to set theme", "error", err)
			}
		} else if res.SpeedChanged {
			h.manager.UpdateConfig(components.ConfigPatch{Speed: &res.Speed})
		}
	}
	if h.panels.IsEnabled(ui.PanelHelp) {
		h.help.SetPosition(right, panelMargin)
		h.help.Draw()
	}

	h.hud.DrawControls(screenH, h.panels)
}

// overUI reports whether a screen point is over the controls panel.
func (h *Host) overUI(p rl.Vector2) bool {
	if h.panels == nil || !h.panels.IsEnabled(ui.PanelControls) {
		return false
	}
	x := float32(rl.GetScreenWidth() - ctrlWidth - panelMargin)
	rect := rl.Rectangle{X: x, Y: panelMargin, Width: ctrlWidth, Height: float32(h.controls.Height())}
	return rl.CheckCollisionPointRec(p, rect)
}
