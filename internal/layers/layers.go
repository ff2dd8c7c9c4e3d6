// Package layers tracks how each source is drawn and derives the data the
// renderer needs for heatmaps and the opening-hours filter.
package layers

import (
	"fmt"
	"sync"

	"spazi/internal/config"
	"spazi/pkg/hours"
	"spazi/pkg/spotlight"
)

// Views holds the current view of every configured source.
type Views struct {
	mu    sync.RWMutex
	views map[string]config.View
}

// NewViews starts every source on its default view.
func NewViews(sources []config.Source) *Views {
	v := &Views{views: make(map[string]config.View, len(sources))}
	for _, s := range sources {
		v.views[s.ID] = s.DefaultView
	}
	return v
}

// Get returns the view of a source; unknown sources are not drawn.
func (v *Views) Get(sourceID string) config.View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if view, ok := v.views[sourceID]; ok {
		return view
	}
	return config.ViewNone
}

// Set switches a source to view.
func (v *Views) Set(sourceID, view string) error {
	parsed, err := config.ParseView(view)
	if err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.views[sourceID]; !ok {
		return fmt.Errorf("unknown source %q", sourceID)
	}
	v.views[sourceID] = parsed
	return nil
}

// HeatPoints returns [lat, lng, intensity] triples for the resolved
// candidates of a source.
func HeatPoints(candidates []spotlight.Candidate, sourceID string) [][3]float64 {
	var out [][3]float64
	for _, c := range candidates {
		if c.SourceID != sourceID || !c.Resolved() {
			continue
		}
		out = append(out, [3]float64{c.Point.Lat, c.Point.Lng, 1})
	}
	return out
}

// OpenFilter reports, per candidate, whether it is open on day at hour.
func OpenFilter(candidates []spotlight.Candidate, day string, hour float64) map[string]bool {
	out := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		out[c.ID] = hours.OpenAt(c.Attributes, day, hour)
	}
	return out
}
