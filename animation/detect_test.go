package animation

import (
	"strings"
	"testing"

	"github.com/pthm-cable/versefx/components"
)

func TestDetectThemeFromText(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		theme     components.Theme
		mood      components.Mood
		intensity components.Intensity
	}{
		{
			name:      "rain and tears",
			text:      "The rain falls softly on my window, tears in the dark",
			theme:     components.ThemeRain,
			mood:      components.MoodMelancholic,
			intensity: components.IntensityLow,
		},
		{
			name:      "stars",
			text:      "Stars dance in the cosmic night, galaxies swirling",
			theme:     components.ThemeGalaxy,
			mood:      components.MoodMystical,
			intensity: components.IntensityLow,
		},
		{
			name:      "snow without rain",
			text:      "Lonely winter, the cold snow settles",
			theme:     components.ThemeSnow,
			mood:      components.MoodMelancholic,
			intensity: components.IntensityLow,
		},
		{
			name:      "aurora",
			text:      "A shimmering aurora veils the sky",
			theme:     components.ThemeAurora,
			mood:      components.MoodMystical,
			intensity: components.IntensityLow,
		},
		{
			name:      "modern",
			text:      "Neon signal in the concrete city",
			theme:     components.ThemeGeometric,
			mood:      components.MoodModern,
			intensity: components.IntensityLow,
		},
		{
			name:      "romantic",
			text:      "My beloved, a rose for your heart",
			theme:     components.ThemePetals,
			mood:      components.MoodRomantic,
			intensity: components.IntensityLow,
		},
		{
			name:      "energetic shouted",
			text:      "Fire! Burn! Roar!",
			theme:     components.ThemeFire,
			mood:      components.MoodEnergetic,
			intensity: components.IntensityHigh,
		},
		{
			name:      "joyful beats melancholic",
			text:      "Happy rain!",
			theme:     components.ThemeBubbles,
			mood:      components.MoodJoyful,
			intensity: components.IntensityMedium,
		},
		{
			name:      "no keywords",
			text:      "A table and a chair",
			theme:     components.ThemeBubbles,
			mood:      components.MoodJoyful,
			intensity: components.IntensityLow,
		},
		{
			name:      "empty",
			text:      "",
			theme:     components.ThemeBubbles,
			mood:      components.MoodJoyful,
			intensity: components.IntensityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectThemeFromText(tt.text)
			if got.Theme != tt.theme {
				t.Errorf("expected theme %s, got %s", tt.theme, got.Theme)
			}
			if got.Mood != tt.mood {
				t.Errorf("expected mood %s, got %s", tt.mood, got.Mood)
			}
			if got.Intensity != tt.intensity {
				t.Errorf("expected intensity %s, got %s", tt.intensity, got.Intensity)
			}
		})
	}
}

func TestDetectIntensity(t *testing.T) {
	long := strings.Repeat("word ", 101)
	medium := strings.Repeat("word ", 40)

	tests := []struct {
		name string
		text string
		want components.Intensity
	}{
		{"short calm", "quiet words", components.IntensityLow},
		{"one bang", "quiet words!", components.IntensityMedium},
		{"two bangs", "hey! you!", components.IntensityMedium},
		{"three bangs", "hey! you! there!", components.IntensityHigh},
		{"over 100 words", long, components.IntensityHigh},
		{"30 to 100 words", medium, components.IntensityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectIntensity(tt.text); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestDetectIgnoresPunctuationAndCase(t *testing.T) {
	got := DetectThemeFromText("...RAIN, rain; go away.")
	if got.Theme != components.ThemeRain {
		t.Errorf("expected rain, got %s", got.Theme)
	}
}
