package spotlight

import (
	"math"

	"spazi/pkg/geo"
)

// Decision is the classification of one candidate.
type Decision struct {
	Visible bool `json:"visible"`
	// Distance to the nearest reference in meters, +Inf when unknown.
	// Zero for eligible candidates, which are not measured.
	Distance float64 `json:"-"`
}

// NearestDistance returns the smallest distance from p to any reference.
// NaN distances count as +Inf.
func NearestDistance(p geo.Point, refs []geo.Point) float64 {
	best := math.Inf(1)
	for _, ref := range refs {
		d := geo.DistanceMeters(p, ref)
		if math.IsNaN(d) {
			continue
		}
		if d < best {
			best = d
		}
	}
	return best
}

// Classify decides the visibility of every resolved candidate against the
// references. A non-eligible candidate is visible iff its nearest reference
// is within radiusMeters; eligible candidates are always visible. Candidates
// without coordinates are left out of the result.
//
// Called with no references, Classify fails open and marks everything visible.
func Classify(candidates []Candidate, refs []geo.Point, radiusMeters float64) map[string]Decision {
	out := make(map[string]Decision, len(candidates))
	for _, c := range candidates {
		if !c.Resolved() {
			continue
		}
		if c.SpotlightEligible || len(refs) == 0 {
			out[c.ID] = Decision{Visible: true}
			continue
		}
		d := NearestDistance(*c.Point, refs)
		out[c.ID] = Decision{Visible: d <= radiusMeters, Distance: d}
	}
	return out
}
