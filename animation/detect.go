package animation

import (
	"strings"
	"unicode"

	"github.com/pthm-cable/versefx/components"
)

type keywordSet map[string]struct{}

func words(list ...string) keywordSet {
	s := make(keywordSet, len(list))
	for _, w := range list {
		s[w] = struct{}{}
	}
	return s
}

func (s keywordSet) any(tokens []string) bool {
	for _, t := range tokens {
		if _, ok := s[t]; ok {
			return true
		}
	}
	return false
}

var (
	joyfulWords = words(
		"happy", "joy", "joyful", "bright", "sun", "sunny", "sunshine", "smile", "smiles",
		"laugh", "laughter", "delight", "cheer", "cheerful", "glad", "celebrate",
		"celebration", "play", "playful", "giggle", "sparkle", "bubble", "bubbles",
	)
	melancholicWords = words(
		"sad", "sorrow", "tear", "tears", "cry", "crying", "rain", "rainy", "raining",
		"storm", "stormy", "grief", "lonely", "alone", "grey", "gray", "dark", "weep",
		"weeping", "loss", "lost", "mourn", "cold", "winter", "snow", "fade", "fading",
		"melancholy", "gloom",
	)
	// Melancholic texts with these words get rain instead of snow
	rainWords = words(
		"rain", "rainy", "raining", "storm", "stormy", "tear", "tears", "cry", "crying",
		"weep", "weeping", "pour", "pours", "pouring", "drizzle", "thunder",
	)
	mysticalWords = words(
		"star", "stars", "galaxy", "galaxies", "cosmic", "cosmos", "universe", "moon",
		"night", "dream", "dreams", "magic", "mystery", "mystic", "mystical", "spirit",
		"ethereal", "infinite", "eternal", "celestial", "nebula", "aurora", "borealis",
	)
	// Mystical texts with these words get aurora instead of galaxy
	auroraWords = words(
		"aurora", "borealis", "northern", "shimmer", "shimmering", "veil", "curtain", "curtains",
	)
	modernWords = words(
		"city", "urban", "machine", "digital", "code", "steel", "glass", "neon", "electric",
		"grid", "circuit", "concrete", "signal", "data", "screen", "pixel", "geometry",
		"angle", "angles",
	)
	romanticWords = words(
		"love", "lover", "heart", "hearts", "kiss", "rose", "roses", "tender", "embrace",
		"beloved", "desire", "passion", "romance", "sweet", "darling", "petal", "petals",
		"blossom",
	)
	energeticWords = words(
		"fire", "flame", "flames", "burn", "burning", "run", "running", "rush", "power",
		"wild", "fast", "energy", "blaze", "jump", "fight", "fury", "roar", "race", "dance",
		"dancing", "rhythm", "beat", "pulse",
	)
)

// moodRule maps a keyword class onto a mood and its theme.
type moodRule struct {
	mood  components.Mood
	words keywordSet
	theme func(tokens []string) components.Theme
}

func fixed(t components.Theme) func([]string) components.Theme {
	return func([]string) components.Theme { return t }
}

// moodRules are tested in priority order; the first match wins.
var moodRules = []moodRule{
	{components.MoodJoyful, joyfulWords, fixed(components.ThemeBubbles)},
	{components.MoodMelancholic, melancholicWords, func(tokens []string) components.Theme {
		if rainWords.any(tokens) {
			return components.ThemeRain
		}
		return components.ThemeSnow
	}},
	{components.MoodMystical, mysticalWords, func(tokens []string) components.Theme {
		if auroraWords.any(tokens) {
			return components.ThemeAurora
		}
		return components.ThemeGalaxy
	}},
	{components.MoodModern, modernWords, fixed(components.ThemeGeometric)},
	{components.MoodRomantic, romanticWords, fixed(components.ThemePetals)},
	{components.MoodEnergetic, energeticWords, fixed(components.ThemeFire)},
}

// DetectThemeFromText infers a theme triple from poem text by keyword class.
// No match gives joyful bubbles. Intensity: more than 2 '!' or over 100 words
// is high; no '!' and under 30 words is low; otherwise medium.
func DetectThemeFromText(text string) components.ThemeConfig {
	lower := strings.ToLower(text)
	tokens := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	tc := components.ThemeConfig{
		Theme:     components.ThemeBubbles,
		Mood:      components.MoodJoyful,
		Intensity: detectIntensity(text),
	}
	for _, rule := range moodRules {
		if rule.words.any(tokens) {
			tc.Mood = rule.mood
			tc.Theme = rule.theme(tokens)
			break
		}
	}
	return tc
}

func detectIntensity(text string) components.Intensity {
	bangs := strings.Count(text, "!")
	n := len(strings.Fields(text))
	switch {
	case bangs > 2 || n > 100:
		return components.IntensityHigh
	case bangs == 0 && n < 30:
		return components.IntensityLow
	default:
		return components.IntensityMedium
	}
}
