package components

import (
	"fmt"
	"strings"
)

// Theme selects the animation strategy.
type Theme uint8

const (
	ThemeBubbles Theme = iota
	ThemeRain
	ThemeSnow
	ThemeGalaxy
	ThemeGeometric
	ThemeFire
	ThemePetals
	ThemeAurora
)

var themeNames = [...]string{"bubbles", "rain", "snow", "galaxy", "geometric", "fire", "petals", "aurora"}

// AllThemes lists every theme in declaration order.
func AllThemes() []Theme {
	out := make([]Theme, len(themeNames))
	for i := range out {
		out[i] = Theme(i)
	}
	return out
}

func (t Theme) String() string {
	if int(t) < len(themeNames) {
		return themeNames[t]
	}
	return fmt.Sprintf("theme(%d)", uint8(t))
}

// ParseTheme parses a theme name (case-insensitive).
func ParseTheme(s string) (Theme, error) {
	i, ok := lookup(themeNames[:], s)
	if !ok {
		return ThemeBubbles, fmt.Errorf("unknown theme %q", s)
	}
	return Theme(i), nil
}

func (t Theme) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *Theme) UnmarshalText(b []byte) error {
	v, err := ParseTheme(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Mood is the emotional class of a poem.
type Mood uint8

const (
	MoodJoyful Mood = iota
	MoodMelancholic
	MoodMystical
	MoodModern
	MoodRomantic
	MoodEnergetic
)

var moodNames = [...]string{"joyful", "melancholic", "mystical", "modern", "romantic", "energetic"}

// AllMoods lists every mood in declaration order.
func AllMoods() []Mood {
	out := make([]Mood, len(moodNames))
	for i := range out {
		out[i] = Mood(i)
	}
	return out
}

func (m Mood) String() string {
	if int(m) < len(moodNames) {
		return moodNames[m]
	}
	return fmt.Sprintf("mood(%d)", uint8(m))
}

// ParseMood parses a mood name (case-insensitive).
func ParseMood(s string) (Mood, error) {
	i, ok := lookup(moodNames[:], s)
	if !ok {
		return MoodJoyful, fmt.Errorf("unknown mood %q", s)
	}
	return Mood(i), nil
}

func (m Mood) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

func (m *Mood) UnmarshalText(b []byte) error {
	v, err := ParseMood(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Intensity scales particle density and speed.
type Intensity uint8

const (
	IntensityLow Intensity = iota
	IntensityMedium
	IntensityHigh
)

var intensityNames = [...]string{"low", "medium", "high"}

func (i Intensity) String() string {
	if int(i) < len(intensityNames) {
		return intensityNames[i]
	}
	return fmt.Sprintf("intensity(%d)", uint8(i))
}

// ParseIntensity parses an intensity name (case-insensitive).
func ParseIntensity(s string) (Intensity, error) {
	i, ok := lookup(intensityNames[:], s)
	if !ok {
		return IntensityMedium, fmt.Errorf("unknown intensity %q", s)
	}
	return Intensity(i), nil
}

func (i Intensity) MarshalText() ([]byte, error) { return []byte(i.String()), nil }

func (i *Intensity) UnmarshalText(b []byte) error {
	v, err := ParseIntensity(string(b))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// ThemeConfig is the (theme, mood, intensity) triple that drives the engine.
type ThemeConfig struct {
	Theme     Theme     `yaml:"theme"`
	Mood      Mood      `yaml:"mood"`
	Intensity Intensity `yaml:"intensity"`
}

func (tc ThemeConfig) String() string {
	return tc.Theme.String() + "/" + tc.Mood.String() + "/" + tc.Intensity.String()
}

func lookup(names []string, s string) (int, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range names {
		if n == s {
			return i, true
		}
	}
	return 0, false
}
