package spotlight

import "errors"

// Kind tags the active spotlight mode.
type Kind int

const (
	Inactive Kind = iota
	Single
	Multi
)

func (k Kind) String() string {
	switch k {
	case Single:
		return "single"
	case Multi:
		return "multi"
	default:
		return "inactive"
	}
}

// MarshalText lets Kind appear as a string in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Mode is the active spotlight. Single carries one reference, Multi one per
// multi-eligible candidate, Inactive none.
type Mode struct {
	Kind       Kind        `json:"kind"`
	References []Reference `json:"references,omitempty"`
}

// Key returns the identity of the single reference, or "".
func (m Mode) Key() string {
	if m.Kind != Single || len(m.References) == 0 {
		return ""
	}
	return m.References[0].Key
}

func (m Mode) clone() Mode {
	m.References = append([]Reference(nil), m.References...)
	return m
}

var (
	ErrUnknownCandidate = errors.New("spotlight: unknown candidate")
	ErrNotEligible      = errors.New("spotlight: candidate cannot be a spotlight reference")
	ErrNoCoordinates    = errors.New("spotlight: candidate has no coordinates")
	ErrNoReferences     = errors.New("spotlight: no multi spotlight references")
)

// Observer is notified synchronously by the Engine. Implementations must not
// call back into the engine.
type Observer interface {
	ModeChanged(from, to Kind)
	Filtered(visible, hidden int)
	// MaskProjected fires for every mask returned by Mask or ViewportChanged.
	MaskProjected(circles int)
}

type nopObserver struct{}

func (nopObserver) ModeChanged(Kind, Kind) {}
func (nopObserver) Filtered(int, int)      {}
func (nopObserver) MaskProjected(int)      {}
