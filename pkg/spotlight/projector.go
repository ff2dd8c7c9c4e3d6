package spotlight

import (
	"math"

	"spazi/pkg/geo"
)

// ScreenPoint is a position in viewport pixels, origin at the top-left corner.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Circle is one hole punched into the overlay mask.
type Circle struct {
	Center       ScreenPoint `json:"center"`
	RadiusPixels float64     `json:"radius_pixels"`
}

// Viewport maps geographic coordinates to the screen at the current pan and
// zoom. It is re-queried on every projection.
type Viewport interface {
	Project(p geo.Point) ScreenPoint
	Zoom() float64
}

// Scaler can be implemented by a Viewport whose renderer uses its own ground
// resolution. Implementations must double the result for every zoom level.
type Scaler interface {
	PixelsPerMeter(lat, zoom float64) float64
}

const (
	// TileSize is the edge of a web map tile in pixels.
	TileSize = 256.0
	// MercatorRadius is the sphere radius of the Web-Mercator projection.
	MercatorRadius = 6378137.0
)

// MetersPerPixel is the Web-Mercator ground resolution at latitude lat: at
// zoom 0 one 256px tile spans the equator, and every zoom level halves it.
func MetersPerPixel(lat, zoom float64) float64 {
	equator := 2 * math.Pi * MercatorRadius / TileSize
	return equator * math.Cos(lat*math.Pi/180) / math.Exp2(zoom)
}

// RadiusPixels converts radiusMeters into pixels for a circle centered at ref.
func RadiusPixels(ref geo.Point, radiusMeters float64, v Viewport) float64 {
	zoom := v.Zoom()
	if s, ok := v.(Scaler); ok {
		return radiusMeters * s.PixelsPerMeter(ref.Lat, zoom)
	}
	return radiusMeters / MetersPerPixel(ref.Lat, zoom)
}

// Project returns one mask circle per reference for the viewport as it is now.
// The result must not be reused after the viewport pans or zooms.
func Project(refs []geo.Point, radiusMeters float64, v Viewport) []Circle {
	if v == nil {
		return nil
	}
	out := make([]Circle, 0, len(refs))
	for _, ref := range refs {
		out = append(out, Circle{
			Center:       v.Project(ref),
			RadiusPixels: RadiusPixels(ref, radiusMeters, v),
		})
	}
	return out
}
