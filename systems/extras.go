package systems

// Extras is strategy-owned extension storage keyed by particle ID.
type Extras[T any] struct {
	m map[uint64]*T
}

// NewExtras creates empty extension storage.
func NewExtras[T any]() *Extras[T] {
	return &Extras[T]{m: make(map[uint64]*T)}
}

// Set stores v for id.
func (e *Extras[T]) Set(id uint64, v T) *T {
	p := &v
	e.m[id] = p
	return p
}

// Get returns the entry for id.
func (e *Extras[T]) Get(id uint64) (*T, bool) {
	p, ok := e.m[id]
	return p, ok
}

// Ensure returns the entry for id, creating it with init if missing.
// Particles built by the default factory get their extension lazily.
func (e *Extras[T]) Ensure(id uint64, init func() T) *T {
	if p, ok := e.m[id]; ok {
		return p
	}
	return e.Set(id, init())
}

// Delete drops the entry for id.
func (e *Extras[T]) Delete(id uint64) {
	delete(e.m, id)
}

// Len returns the number of live entries.
func (e *Extras[T]) Len() int { return len(e.m) }

// Reset drops every entry.
func (e *Extras[T]) Reset() {
	clear(e.m)
}
