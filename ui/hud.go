package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/versefx/animation"
	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/telemetry"
)

// HUDData holds everything the main HUD shows.
type HUDData struct {
	Title   string
	Theme   components.ThemeConfig
	Metrics animation.Metrics
	Device  telemetry.DeviceCapabilities
	GPU     bool
	Status  string // optional line, e.g. the upstream poem title or error
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a HUD anchored at x, y.
func NewHUD(x, y, width int32) *HUD {
	return &HUD{renderer: NewRenderer(), x: x, y: y, width: width}
}

// Draw renders the HUD and returns the Y below it.
func (h *HUD) Draw(data HUDData) int32 {
	r := h.renderer
	padding := r.Style.Padding
	lines := int32(7)
	if data.Status != "" {
		lines++
	}
	r.DrawPanel(h.x, h.y, h.width, lines*r.Style.LineHeight+padding*2+8)

	x := h.x + padding
	inner := h.width - padding*2
	y := h.y + padding

	rl.DrawText(data.Title, x, y, 16, rl.White)
	y += r.Style.LineHeight + 4

	m := data.Metrics
	y = r.DrawLabelValue(x, y, "Theme", data.Theme.String())
	y = r.DrawRatioBar(x, y, "FPS", fpsRatio(m), fmt.Sprintf("%.0f/%d", m.AverageFPS, m.TargetFPS), inner)
	y = r.DrawRatioBar(x, y, "Particles", budgetRatio(m), fmt.Sprintf("%d/%d", m.ParticleCount, m.TargetParticles), inner)
	y = r.DrawLabelValue(x, y, "Ripples", fmt.Sprintf("%d", m.RippleCount))

	path := "cpu"
	if data.GPU {
		path = "gpu"
	}
	y = r.DrawLabelValue(x, y, "Quality", fmt.Sprintf("%s (%s, %s tier)", m.QualityLevel, path, data.Device.GPUTier))

	if data.Status != "" {
		rl.DrawText(data.Status, x, y, r.Style.FontSize, r.Style.SectionHeader)
		y += r.Style.LineHeight
	}
	return y + padding
}

// fpsRatio is the average FPS as a fraction of target.
func fpsRatio(m animation.Metrics) float64 {
	if m.TargetFPS <= 0 {
		return 0
	}
	return clampRatio(m.AverageFPS / float64(m.TargetFPS))
}

// budgetRatio is the live pool as a fraction of the current budget.
func budgetRatio(m animation.Metrics) float64 {
	if m.TargetParticles <= 0 {
		return 0
	}
	return clampRatio(float64(m.ParticleCount) / float64(m.TargetParticles))
}

// DrawControls renders the key legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, panels *PanelRegistry) {
	legend := ""
	for _, p := range panels.All() {
		if p.KeyLabel == "" {
			continue
		}
		if legend != "" {
			legend += " | "
		}
		legend += fmt.Sprintf("[%s] %s", p.KeyLabel, p.Name)
	}
	rl.DrawText(legend, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanel renders the per-phase frame timing.
type PerfPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y, width int32) *PerfPanel {
	return &PerfPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(stats telemetry.PerfStats) {
	r := p.renderer
	phases := telemetry.Phases()
	height := int32(len(phases)+3)*r.Style.LineHeight + r.Style.Padding*2
	r.DrawPanel(p.x, p.y, p.width, height)

	x := p.x + r.Style.Padding
	y := p.y + r.Style.Padding

	y = r.DrawSectionHeader(x, y, "Frame Phases")
	rl.DrawText(fmt.Sprintf("Avg: %s  Max: %s  Headroom: %.0f fps",
		stats.AvgFrameDuration.Round(time.Microsecond),
		stats.MaxFrameDuration.Round(time.Microsecond),
		stats.Headroom,
	), x, y, r.Style.FontSize, r.Style.ValueColor)
	y += r.Style.LineHeight + 4

	for _, name := range phases {
		pct := stats.PhasePct[name]
		color := r.Style.LabelColor
		if pct > 50 {
			color = rl.Red
		} else if pct > 25 {
			color = rl.Orange
		}
		rl.DrawText(
			fmt.Sprintf("%-10s %8s %5.1f%%", name, stats.PhaseAvg[name].Round(time.Microsecond), pct),
			x, y, r.Style.FontSize, color,
		)
		y += r.Style.LineHeight
	}
}

// HelpPanel lists the pointer interactions.
type HelpPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHelpPanel creates a help panel.
func NewHelpPanel(x, y, width int32) *HelpPanel {
	return &HelpPanel{renderer: NewRenderer(), x: x, y: y, width: width}
}

// SetPosition updates the panel position.
func (h *HelpPanel) SetPosition(x, y int32) {
	h.x = x
	h.y = y
}

var helpLines = []string{
	"Move the pointer to disturb particles",
	"Click or tap to send a ripple",
	"Drag the window edge to resize",
	"[Esc] quit",
}

// Draw renders the help panel.
func (h *HelpPanel) Draw() {
	r := h.renderer
	height := int32(len(helpLines)+1)*r.Style.LineHeight + r.Style.Padding*2
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + r.Style.Padding
	y := r.DrawSectionHeader(x, h.y+r.Style.Padding, "Help")
	for _, line := range helpLines {
		rl.DrawText(line, x, y, r.Style.FontSize, r.Style.LabelColor)
		y += r.Style.LineHeight
	}
}
