// Package viewport provides a Web-Mercator viewport that satisfies
// spotlight.Viewport, for callers that have no renderer of their own to ask
// (command line tools, tests, server-side previews).
package viewport

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"spazi/pkg/geo"
	"spazi/pkg/spotlight"
)

const halfCircumference = math.Pi * spotlight.MercatorRadius

// Mercator is a viewport of Width x Height pixels centered on Center.
type Mercator struct {
	Center geo.Point
	Width  int
	Height int
	zoom   float64
}

// NewMercator creates a viewport clamped to [0, 22] zoom.
func NewMercator(center geo.Point, zoom float64, width, height int) *Mercator {
	m := &Mercator{Center: center, Width: width, Height: height}
	m.SetZoom(zoom)
	return m
}

func (m *Mercator) Zoom() float64 {
	return m.zoom
}

// SetZoom changes the zoom level.
func (m *Mercator) SetZoom(zoom float64) {
	m.zoom = math.Max(0, math.Min(22, zoom))
}

// Pan moves the center.
func (m *Mercator) Pan(center geo.Point) {
	m.Center = center
}

// Project returns the container pixel of p.
func (m *Mercator) Project(p geo.Point) spotlight.ScreenPoint {
	x, y := m.world(p)
	cx, cy := m.world(m.Center)
	return spotlight.ScreenPoint{
		X: x - cx + float64(m.Width)/2,
		Y: y - cy + float64(m.Height)/2,
	}
}

// world returns the global pixel position of p at the current zoom.
func (m *Mercator) world(p geo.Point) (float64, float64) {
	merc := project.WGS84.ToMercator(orb.Point{p.Lng, p.Lat})
	size := spotlight.TileSize * math.Exp2(m.zoom)
	x := (merc.X() + halfCircumference) / (2 * halfCircumference) * size
	y := (halfCircumference - merc.Y()) / (2 * halfCircumference) * size
	return x, y
}
