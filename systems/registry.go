package systems

import (
	"math/rand"

	"github.com/pthm-cable/versefx/components"
)

// StrategyInfo describes an animation strategy for the registry and UI.
type StrategyInfo struct {
	Theme       components.Theme
	Name        string // Display name
	Description string // What the animation looks like
	New         func(rng *rand.Rand) Strategy
}

// Registry maps themes to strategy constructors.
// This centralizes naming so the control panel and the manager stay in sync.
type Registry struct {
	strategies []StrategyInfo
	byTheme    map[components.Theme]StrategyInfo
}

// NewRegistry creates a registry with all built-in strategies.
func NewRegistry() *Registry {
	reg := &Registry{
		byTheme: make(map[components.Theme]StrategyInfo),
	}
	reg.registerDefaults()
	return reg
}

// registerDefaults adds the built-in strategies.
// Update this when adding new themes.
func (r *Registry) registerDefaults() {
	r.Register(StrategyInfo{Theme: components.ThemeBubbles, Name: "Bubbles", Description: "Rising bubbles pushed away by the pointer",
		New: func(rng *rand.Rand) Strategy { return NewBubbles() }})
	r.Register(StrategyInfo{Theme: components.ThemeRain, Name: "Rain", Description: "Wind-blown falling streaks",
		New: func(rng *rand.Rand) Strategy { return NewRain(rng) }})
	r.Register(StrategyInfo{Theme: components.ThemeSnow, Name: "Snow", Description: "Wobbling snowflakes swirled by the pointer",
		New: func(rng *rand.Rand) Strategy { return NewSnow() }})
	r.Register(StrategyInfo{Theme: components.ThemeGalaxy, Name: "Galaxy", Description: "Stars orbiting a drifting spiral",
		New: func(rng *rand.Rand) Strategy { return NewGalaxy() }})
	r.Register(StrategyInfo{Theme: components.ThemeGeometric, Name: "Geometric", Description: "Bouncing polygons aligned in 60 degree sectors",
		New: func(rng *rand.Rand) Strategy { return NewGeometric() }})
	r.Register(StrategyInfo{Theme: components.ThemeFire, Name: "Fire", Description: "Flickering embers rising from the bottom",
		New: func(rng *rand.Rand) Strategy { return NewFire() }})
	r.Register(StrategyInfo{Theme: components.ThemePetals, Name: "Petals", Description: "Swaying petals drifting down",
		New: func(rng *rand.Rand) Strategy { return NewPetals() }})
	r.Register(StrategyInfo{Theme: components.ThemeAurora, Name: "Aurora", Description: "Shimmering light curtains",
		New: func(rng *rand.Rand) Strategy { return NewAurora(rng) }})
}

// Register adds a strategy to the registry, replacing any for the same theme.
func (r *Registry) Register(info StrategyInfo) {
	if _, ok := r.byTheme[info.Theme]; ok {
		for i := range r.strategies {
			if r.strategies[i].Theme == info.Theme {
				r.strategies[i] = info
			}
		}
	} else {
		r.strategies = append(r.strategies, info)
	}
	r.byTheme[info.Theme] = info
}

// Get returns strategy info by theme.
func (r *Registry) Get(theme components.Theme) (StrategyInfo, bool) {
	info, ok := r.byTheme[theme]
	return info, ok
}

// All returns all registered strategies in registration order.
func (r *Registry) All() []StrategyInfo {
	return r.strategies
}

// New constructs the strategy for a theme. Unknown themes get bubbles.
func (r *Registry) New(theme components.Theme, rng *rand.Rand) Strategy {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	info, ok := r.byTheme[theme]
	if !ok {
		info = r.byTheme[components.ThemeBubbles]
	}
	return info.New(rng)
}

var defaultRegistry = NewRegistry()

// New constructs a built-in strategy for a theme, falling back to bubbles.
func New(theme components.Theme, rng *rand.Rand) Strategy {
	return defaultRegistry.New(theme, rng)
}

// Strategies lists the built-in strategies.
func Strategies() []StrategyInfo {
	return defaultRegistry.All()
}
