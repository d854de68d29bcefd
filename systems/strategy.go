// Package systems implements the animation strategies: per-theme particle
// physics and drawing rules run by the shared animation engine.
package systems

import (
	"math/rand"

	"github.com/pthm-cable/versefx/components"
	"github.com/pthm-cable/versefx/renderer"
)

// FrameMs is the reference frame duration motion constants are tuned for.
const FrameMs = 1000.0 / 60.0

// Strategy is one theme's particle rule set. The engine owns the pool;
// a strategy only creates, advances and draws particles.
type Strategy interface {
	Name() string
	// Init returns the initial pool of sc.Config.ParticleCount particles.
	Init(sc *Scene) []components.Particle
	// Update advances one particle by dtMs and applies the boundary policy.
	Update(p *components.Particle, dtMs float64, sc *Scene)
	Render(p *components.Particle, s renderer.Surface)
}

// Spawner overrides the default particle factory used to replenish the pool.
type Spawner interface {
	Spawn(sc *Scene) components.Particle
}

// FrameStepper is implemented by strategies with global per-frame state.
// BeginFrame runs once per frame before any particle is updated.
type FrameStepper interface {
	BeginFrame(dtMs float64, sc *Scene)
}

// Releaser is implemented by strategies that keep per-particle extension
// state. Release is called when a particle leaves the pool.
type Releaser interface {
	Release(id uint64)
}

// Pointer is the latest pointer state in canvas pixel space.
type Pointer struct {
	Position components.Vector2D
	Active   bool
}

// Scene is the per-frame context handed to strategies.
type Scene struct {
	Width, Height float64
	Pointer       Pointer
	Config        components.AnimationConfig
	Rng           *rand.Rand
	TimeMs        float64 // simulated time since start

	nextID uint64
}

// NewScene creates a scene for a w x h canvas.
func NewScene(w, h float64, cfg components.AnimationConfig, rng *rand.Rand) *Scene {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Scene{Width: w, Height: h, Config: cfg, Rng: rng}
}

// NextID allocates a particle ID.
func (sc *Scene) NextID() uint64 {
	sc.nextID++
	return sc.nextID
}

// Speed returns the global speed multiplier, 1 when unset.
func (sc *Scene) Speed() float64 {
	if sc.Config.Speed <= 0 {
		return 1
	}
	return sc.Config.Speed
}

// Interacting reports whether pointer forces apply this frame.
func (sc *Scene) Interacting() bool {
	return sc.Config.Interactive && sc.Pointer.Active
}
