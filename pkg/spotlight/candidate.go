// Package spotlight implements the proximity spotlight: given one or more
// reference locations and a radius it decides which candidates stay visible,
// and derives the screen-space circles of the overlay mask for the current
// viewport.
//
// The package is pure computation. Applying the decisions to markers and
// drawing the mask is the job of the caller's renderer.
package spotlight

import "spazi/pkg/geo"

// Candidate is a point of interest handed to the engine by a dataset loader.
// The engine never mutates candidates.
type Candidate struct {
	// ID is the stable identity of the record, unique across sources.
	ID string `json:"id"`
	// SourceID names the dataset the record came from.
	SourceID string `json:"source_id"`
	// Point is nil when the record has no usable coordinates.
	Point *geo.Point `json:"point,omitempty"`
	// SpotlightEligible marks points that can be a spotlight reference.
	// Eligible candidates are never filtered.
	SpotlightEligible bool `json:"spotlight_eligible"`
	// MultiEligible marks points used as references by the multi spotlight.
	MultiEligible bool `json:"multi_eligible"`
	// Opacity is the default marker opacity of the candidate's source.
	Opacity float64 `json:"opacity"`

	Name       string         `json:"name,omitempty"`
	Category   string         `json:"category,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Resolved reports whether the candidate has coordinates.
func (c Candidate) Resolved() bool {
	return c.Point != nil
}

// Reference is an active spotlight center together with the identity of the
// candidate it came from.
type Reference struct {
	Key   string    `json:"key"`
	Point geo.Point `json:"point"`
}

func points(refs []Reference) []geo.Point {
	out := make([]geo.Point, len(refs))
	for i, r := range refs {
		out[i] = r.Point
	}
	return out
}
