package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/pthm-cable/versefx/components"
)

var intensities = []components.Intensity{
	components.IntensityLow,
	components.IntensityMedium,
	components.IntensityHigh,
}

// ControlResult reports what the user changed this frame.
type ControlResult struct {
	ThemeChanged bool
	Theme        components.ThemeConfig

	SpeedChanged bool
	Speed        float64
}

// ControlsPanel renders raygui buttons for theme, mood and intensity, and
// a speed slider.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
	columns  int
}

// NewControlsPanel creates a new controls panel.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{renderer: NewRenderer(), x: x, y: y, width: width, columns: 3}
}

// SetPosition updates the panel position.
func (c *ControlsPanel) SetPosition(x, y int32) {
	c.x = x
	c.y = y
}

// Height returns the panel height for the current layout.
func (c *ControlsPanel) Height() int32 {
	r := c.renderer
	rows := rowsFor(len(components.AllThemes()), c.columns) +
		rowsFor(len(components.AllMoods()), c.columns) +
		rowsFor(len(intensities), c.columns)
	return int32(rows)*buttonStride + 4*r.Style.LineHeight + r.Style.Padding*2 + sliderHeight + 8
}

const (
	buttonHeight = 22
	buttonStride = buttonHeight + 4
	sliderHeight = 20
)

func rowsFor(n, columns int) int {
	if columns < 1 {
		columns = 1
	}
	return (n + columns - 1) / columns
}

// Draw renders the panel for the current triple and speed and returns
// any changes.
func (c *ControlsPanel) Draw(current components.ThemeConfig, speed float64) ControlResult {
	r := c.renderer
	res := ControlResult{Theme: current, Speed: speed}
	r.DrawPanel(c.x, c.y, c.width, c.Height())

	x := c.x + r.Style.Padding
	y := c.y + r.Style.Padding
	inner := c.width - r.Style.Padding*2

	y = r.DrawSectionHeader(x, y, "Theme")
	themes := components.AllThemes()
	labels := make([]string, len(themes))
	for i, t := range themes {
		labels[i] = t.String()
	}
	if i, ok := c.buttonGrid(x, y, inner, labels, indexOf(themes, current.Theme)); ok {
		res.Theme.Theme = themes[i]
		res.ThemeChanged = true
	}
	y += int32(rowsFor(len(themes), c.columns)) * buttonStride

	y = r.DrawSectionHeader(x, y, "Mood")
	moods := components.AllMoods()
	labels = make([]string, len(moods))
	for i, m := range moods {
		labels[i] = m.String()
	}
	if i, ok := c.buttonGrid(x, y, inner, labels, indexOf(moods, current.Mood)); ok {
		res.Theme.Mood = moods[i]
		res.ThemeChanged = true
	}
	y += int32(rowsFor(len(moods), c.columns)) * buttonStride

	y = r.DrawSectionHeader(x, y, "Intensity")
	labels = make([]string, len(intensities))
	for i, in := range intensities {
		labels[i] = in.String()
	}
	if i, ok := c.buttonGrid(x, y, inner, labels, indexOf(intensities, current.Intensity)); ok {
		res.Theme.Intensity = intensities[i]
		res.ThemeChanged = true
	}
	y += int32(rowsFor(len(intensities), c.columns)) * buttonStride

	y = r.DrawSectionHeader(x, y, "Speed")
	newSpeed := gui.SliderBar(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: float32(inner - 50), Height: sliderHeight},
		"", "",
		float32(speed), 0.1, 4.0,
	)
	rl.DrawText(fmt.Sprintf("%.2f", speed), x+inner-45, y+3, r.Style.FontSize, r.Style.ValueColor)
	if delta := float64(newSpeed) - speed; delta > 0.005 || delta < -0.005 {
		res.Speed = float64(newSpeed)
		res.SpeedChanged = true
	}
	return res
}

// buttonGrid lays out one button per label and returns the clicked index.
// The selected label is outlined.
func (c *ControlsPanel) buttonGrid(x, y, width int32, labels []string, selected int) (int, bool) {
	cols := int32(c.columns)
	bw := (width - (cols-1)*4) / cols
	clicked, ok := -1, false
	for i, label := range labels {
		bx := x + int32(i)%cols*(bw+4)
		by := y + int32(i)/cols*buttonStride
		rect := rl.Rectangle{X: float32(bx), Y: float32(by), Width: float32(bw), Height: buttonHeight}
		if gui.Button(rect, label) && i != selected {
			clicked, ok = i, true
		}
		if i == selected {
			rl.DrawRectangleLinesEx(rect, 2, c.renderer.Style.Selected)
		}
	}
	return clicked, ok
}

func indexOf[T comparable](list []T, v T) int {
	for i, x := range list {
		if x == v {
			return i
		}
	}
	return -1
}
