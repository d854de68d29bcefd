// Package ui draws the demo host's HUD, performance panel and theme
// controls with raylib and raygui.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Style holds the panel colors and metrics shared by every widget.
type Style struct {
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	Selected      rl.Color // outline of the active button

	// Ratio bar fills, by ratio band
	BarBg   rl.Color
	BarPoor rl.Color
	BarFair rl.Color
	BarGood rl.Color

	Padding, LineHeight int32
	LabelWidth         int32
	BarHeight          int32
	FontSize           int32
	HeaderFontSize     int32
}

// DefaultStyle is the dark translucent look drawn over the animation.
func DefaultStyle() Style {
	return Style{
		PanelBg:        rl.Color{R: 15, G: 18, B: 28, A: 220},
		PanelBorder:    rl.Color{R: 60, G: 70, B: 90, A: 255},
		SectionHeader:  rl.Yellow,
		LabelColor:     rl.LightGray,
		ValueColor:     rl.RayWhite,
		Selected:       rl.Color{R: 120, G: 200, B: 255, A: 255},
		BarBg:          rl.Color{R: 40, G: 40, B: 48, A: 255},
		BarPoor:        rl.Color{R: 220, G: 90, B: 110, A: 255},
		BarFair:        rl.Color{R: 230, G: 190, B: 90, A: 255},
		BarGood:        rl.Color{R: 90, G: 210, B: 170, A: 255},
		Padding:        10,
		LineHeight:     16,
		LabelWidth:     90,
		BarHeight:      12,
		FontSize:       12,
		HeaderFontSize: 14,
	}
}
