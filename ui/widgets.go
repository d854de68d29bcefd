package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer handles all UI drawing with consistent styling.
type Renderer struct {
	Style Style
}

// NewRenderer creates a renderer with the default style.
func NewRenderer() *Renderer {
	return &Renderer{Style: DefaultStyle()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Style.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Style.PanelBorder)
}

// DrawSectionHeader draws a section header and returns the new Y position.
func (r *Renderer) DrawSectionHeader(x, y int32, title string) int32 {
	rl.DrawText(title, x, y, r.Style.HeaderFontSize, r.Style.SectionHeader)
	return y + r.Style.LineHeight
}

// DrawLabelValue draws a label and value on the same line.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Style.FontSize, r.Style.LabelColor)
	rl.DrawText(value, x+r.Style.LabelWidth, y, r.Style.FontSize, r.Style.ValueColor)
	return y + r.Style.LineHeight
}

// DrawRatioBar draws a [0, 1] bar colored by threshold, with text after it.
func (r *Renderer) DrawRatioBar(x, y int32, label string, ratio float64, text string, width int32) int32 {
	ratio = clampRatio(ratio)

	barX := x + r.Style.LabelWidth
	barWidth := width - r.Style.LabelWidth - 70

	rl.DrawText(label+":", x, y, r.Style.FontSize, r.Style.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Style.BarHeight, r.Style.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float64(barWidth)*ratio), r.Style.BarHeight, r.barColor(ratio))
	rl.DrawText(text, barX+barWidth+5, y, r.Style.FontSize, r.Style.ValueColor)

	return y + r.Style.LineHeight + 2
}

// barColor picks the fill for a ratio: low below 0.3, medium below 0.6.
func (r *Renderer) barColor(ratio float64) rl.Color {
	switch {
	case ratio < 0.3:
		return r.Style.BarPoor
	case ratio < 0.6:
		return r.Style.BarFair
	default:
		return r.Style.BarGood
	}
}

// DrawSwatches draws a row of palette swatches and returns the new Y.
func (r *Renderer) DrawSwatches(x, y int32, colors []rl.Color) int32 {
	size := int32(12)
	for i, c := range colors {
		rl.DrawRectangle(x+int32(i)*(size+4), y+1, size, size, c)
	}
	return y + r.Style.LineHeight
}

func clampRatio(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
