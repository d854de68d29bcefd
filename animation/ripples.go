package animation

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/versefx/components"
)

// rippleStore keeps ripples as entities in a small ECS world.
type rippleStore struct {
	world  *ecs.World
	mapper *ecs.Map1[components.Ripple]
	filter *ecs.Filter1[components.Ripple]

	count   int
	expired []ecs.Entity
}

func newRippleStore() *rippleStore {
	world := ecs.NewWorld()
	return &rippleStore{
		world:  world,
		mapper: ecs.NewMap1[components.Ripple](world),
		filter: ecs.NewFilter1[components.Ripple](world),
	}
}

// Spawn adds a ripple.
func (s *rippleStore) Spawn(r components.Ripple) {
	s.mapper.NewEntity(&r)
	s.count++
}

// Step advances every ripple and removes the expired ones.
// It returns the number removed.
func (s *rippleStore) Step(dtMs, growthPerMs, decayPerMs float64) int {
	// First pass: advance and collect (the world is locked during queries)
	s.expired = s.expired[:0]
	query := s.filter.Query()
	for query.Next() {
		r := query.Get()
		r.Advance(dtMs, growthPerMs, decayPerMs)
		if r.Expired() {
			s.expired = append(s.expired, query.Entity())
		}
	}

	// Second pass: remove
	for _, e := range s.expired {
		s.mapper.Remove(e)
	}
	s.count -= len(s.expired)
	return len(s.expired)
}

// Each calls fn for every live ripple.
func (s *rippleStore) Each(fn func(r *components.Ripple)) {
	query := s.filter.Query()
	for query.Next() {
		fn(query.Get())
	}
}

// Len returns the number of live ripples.
func (s *rippleStore) Len() int { return s.count }

// Reset removes every ripple.
func (s *rippleStore) Reset() {
	s.expired = s.expired[:0]
	query := s.filter.Query()
	for query.Next() {
		s.expired = append(s.expired, query.Entity())
	}
	for _, e := range s.expired {
		s.mapper.Remove(e)
	}
	s.count = 0
}
