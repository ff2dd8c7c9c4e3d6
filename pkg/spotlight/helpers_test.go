package spotlight

import (
	"math"

	"spazi/pkg/geo"
)

var bari = geo.Point{Lat: 41.1180, Lng: 16.8701}

// north returns the point the given number of meters due north of p.
func north(p geo.Point, meters float64) geo.Point {
	return geo.Point{Lat: p.Lat + meters/(geo.EarthRadiusMeters*math.Pi/180), Lng: p.Lng}
}

func ptr(p geo.Point) *geo.Point {
	return &p
}

func eligible(id string, p geo.Point) Candidate {
	return Candidate{ID: id, SourceID: "spazi", Point: ptr(p), SpotlightEligible: true, MultiEligible: true, Opacity: 1}
}

func filtered(id string, p geo.Point) Candidate {
	return Candidate{ID: id, SourceID: "consumo", Point: ptr(p), Opacity: 0.7}
}

// fixedViewport projects with a flat offset and a settable zoom.
type fixedViewport struct {
	zoom   float64
	origin geo.Point
}

func (v *fixedViewport) Zoom() float64 { return v.zoom }

func (v *fixedViewport) Project(p geo.Point) ScreenPoint {
	scale := math.Exp2(v.zoom)
	return ScreenPoint{X: (p.Lng - v.origin.Lng) * scale, Y: (v.origin.Lat - p.Lat) * scale}
}

type recordingObserver struct {
	transitions [][2]Kind
	filtered    [][2]int
	projections []int
}

func (o *recordingObserver) ModeChanged(from, to Kind) {
	o.transitions = append(o.transitions, [2]Kind{from, to})
}

func (o *recordingObserver) Filtered(visible, hidden int) {
	o.filtered = append(o.filtered, [2]int{visible, hidden})
}

func (o *recordingObserver) MaskProjected(circles int) {
	o.projections = append(o.projections, circles)
}
