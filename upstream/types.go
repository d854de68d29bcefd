// Package upstream is the HTTP client for the poem and theme analysis backend.
package upstream

import (
	"strings"

	"github.com/pthm-cable/versefx/components"
)

// PoemInputs are the three words a poem is generated from.
type PoemInputs struct {
	Verb      string `json:"verb"`
	Adjective string `json:"adjective"`
	Noun      string `json:"noun"`
}

func (in PoemInputs) validate() error {
	var missing []string
	if strings.TrimSpace(in.Verb) == "" {
		missing = append(missing, "verb")
	}
	if strings.TrimSpace(in.Adjective) == "" {
		missing = append(missing, "adjective")
	}
	if strings.TrimSpace(in.Noun) == "" {
		missing = append(missing, "noun")
	}
	if len(missing) > 0 {
		return &Error{Kind: KindValidation, Message: "missing " + strings.Join(missing, ", ")}
	}
	return nil
}

// PoemData is a generated poem.
type PoemData struct {
	Title  string     `json:"title"`
	Poem   string     `json:"poem"`
	Inputs PoemInputs `json:"inputs"`
}

// ThemeAnalysis is the backend's reading of a poem.
type ThemeAnalysis struct {
	Theme      string   `json:"theme"`
	Mood       string   `json:"mood"`
	Intensity  string   `json:"intensity"`
	Emotions   []string `json:"emotions,omitempty"`
	Colors     []string `json:"colors,omitempty"`
	Confidence float64  `json:"confidence"`
}

// ThemeConfig maps the analysis onto an engine triple. ok is false when
// the theme or mood is not one the engine knows; an unknown intensity
// maps to medium.
func (a ThemeAnalysis) ThemeConfig() (tc components.ThemeConfig, ok bool) {
	theme, err := components.ParseTheme(strings.ToLower(strings.TrimSpace(a.Theme)))
	if err != nil {
		return tc, false
	}
	mood, err := components.ParseMood(strings.ToLower(strings.TrimSpace(a.Mood)))
	if err != nil {
		return tc, false
	}
	intensity, err := components.ParseIntensity(strings.ToLower(strings.TrimSpace(a.Intensity)))
	if err != nil {
		intensity = components.IntensityMedium
	}
	return components.ThemeConfig{Theme: theme, Mood: mood, Intensity: intensity}, true
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
