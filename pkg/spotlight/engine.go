package spotlight

import (
	"fmt"
	"sync"
)

// DefaultRadiusMeters is the spotlight radius used when none is configured.
const DefaultRadiusMeters = 150.0

// PinState is what the renderer applies to a marker.
type PinState struct {
	Visible     bool    `json:"visible"`
	Interactive bool    `json:"interactive"`
	Opacity     float64 `json:"opacity"`
}

// Engine owns the active spotlight of one map view. Each transition computes
// the new pin table and only then swaps it in, so callers never observe a
// partially filtered state.
type Engine struct {
	mu         sync.Mutex
	radius     float64
	candidates []Candidate
	index      map[string]int
	mode       Mode
	pins       map[string]PinState
	viewport   Viewport
	observer   Observer
}

// Option configures an Engine.
type Option func(*Engine)

// WithRadius sets the spotlight radius in meters.
func WithRadius(meters float64) Option {
	return func(e *Engine) {
		if meters > 0 {
			e.radius = meters
		}
	}
}

// WithViewport sets the initial viewport.
func WithViewport(v Viewport) Option {
	return func(e *Engine) { e.viewport = v }
}

// WithObserver registers an observer for transitions and recomputations.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}

// NewEngine creates an inactive engine over candidates.
func NewEngine(candidates []Candidate, opts ...Option) *Engine {
	e := &Engine{
		radius:   DefaultRadiusMeters,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.setCandidates(candidates)
	e.pins = e.defaultPins()
	return e
}

// Radius returns the spotlight radius in meters.
func (e *Engine) Radius() float64 {
	return e.radius
}

// IsActive reports whether a single or multi spotlight is on.
func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode.Kind != Inactive
}

// Mode returns a copy of the active mode.
func (e *Engine) Mode() Mode {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mode.clone()
}

// ActivateSingle toggles the spotlight on the candidate with the given id.
// Re-activating the active single spotlight turns it off; any other eligible
// candidate becomes the new reference. On error the state is unchanged.
func (e *Engine) ActivateSingle(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	i, ok := e.index[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCandidate, id)
	}
	c := e.candidates[i]
	if !c.SpotlightEligible {
		return fmt.Errorf("%w: %q", ErrNotEligible, id)
	}
	if !c.Resolved() {
		return fmt.Errorf("%w: %q", ErrNoCoordinates, id)
	}

	if e.mode.Kind == Single && e.mode.Key() == id {
		e.apply(Mode{Kind: Inactive})
		return nil
	}
	e.apply(Mode{Kind: Single, References: []Reference{{Key: c.ID, Point: *c.Point}}})
	return nil
}

// ActivateMulti toggles the multi spotlight over every multi-eligible
// candidate. When there is nothing to spotlight the engine ends up inactive
// and ErrNoReferences is returned.
func (e *Engine) ActivateMulti() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode.Kind == Multi {
		e.apply(Mode{Kind: Inactive})
		return nil
	}
	refs := e.multiReferences()
	if len(refs) == 0 {
		e.apply(Mode{Kind: Inactive})
		return ErrNoReferences
	}
	e.apply(Mode{Kind: Multi, References: refs})
	return nil
}

// Deactivate turns any spotlight off. It is a no-op when already inactive.
func (e *Engine) Deactivate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode.Kind == Inactive {
		return
	}
	e.apply(Mode{Kind: Inactive})
}

// Replace swaps the candidate set, for example after a dataset reload, and
// re-applies the active mode against it.
func (e *Engine) Replace(candidates []Candidate) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.setCandidates(candidates)
	next := Mode{Kind: Inactive}
	switch e.mode.Kind {
	case Single:
		if i, ok := e.index[e.mode.Key()]; ok {
			c := e.candidates[i]
			if c.SpotlightEligible && c.Resolved() {
				next = Mode{Kind: Single, References: []Reference{{Key: c.ID, Point: *c.Point}}}
			}
		}
	case Multi:
		if refs := e.multiReferences(); len(refs) > 0 {
			next = Mode{Kind: Multi, References: refs}
		}
	}
	e.apply(next)
}

// Pins returns a copy of the marker state of every candidate.
func (e *Engine) Pins() map[string]PinState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]PinState, len(e.pins))
	for k, v := range e.pins {
		out[k] = v
	}
	return out
}

// Pin returns the marker state of one candidate.
func (e *Engine) Pin(id string) (PinState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, ok := e.pins[id]
	return p, ok
}

// ViewportChanged records the viewport after a pan or zoom and returns the
// recomputed mask.
func (e *Engine) ViewportChanged(v Viewport) []Circle {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.viewport = v
	return e.mask()
}

// Mask projects the overlay circles for the current viewport. It is empty
// when no spotlight is active or no viewport is known.
func (e *Engine) Mask() []Circle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mask()
}

func (e *Engine) mask() []Circle {
	if e.mode.Kind == Inactive || e.viewport == nil {
		return nil
	}
	circles := Project(points(e.mode.References), e.radius, e.viewport)
	e.observer.MaskProjected(len(circles))
	return circles
}

// apply installs mode and the pin table derived from it in one step.
func (e *Engine) apply(mode Mode) {
	pins := e.defaultPins()
	if mode.Kind != Inactive {
		visible, hidden := 0, 0
		for id, d := range Classify(e.candidates, points(mode.References), e.radius) {
			if d.Visible {
				visible++
				continue
			}
			hidden++
			pins[id] = PinState{}
		}
		e.observer.Filtered(visible, hidden)
	}

	prev, prevKey := e.mode.Kind, e.mode.Key()
	e.mode = mode
	e.pins = pins
	if prev != mode.Kind || prevKey != mode.Key() {
		e.observer.ModeChanged(prev, mode.Kind)
	}
}

func (e *Engine) defaultPins() map[string]PinState {
	pins := make(map[string]PinState, len(e.candidates))
	for _, c := range e.candidates {
		pins[c.ID] = PinState{Visible: true, Interactive: true, Opacity: c.Opacity}
	}
	return pins
}

func (e *Engine) multiReferences() []Reference {
	var refs []Reference
	for _, c := range e.candidates {
		if c.MultiEligible && c.Resolved() {
			refs = append(refs, Reference{Key: c.ID, Point: *c.Point})
		}
	}
	return refs
}

func (e *Engine) setCandidates(candidates []Candidate) {
	e.candidates = append([]Candidate(nil), candidates...)
	e.index = make(map[string]int, len(e.candidates))
	for i, c := range e.candidates {
		e.index[c.ID] = i
	}
}
