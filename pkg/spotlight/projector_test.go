package spotlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spazi/pkg/geo"
)

func TestRadiusPixelsDoublesPerZoomLevel(t *testing.T) {
	for zoom := 0.0; zoom < 21; zoom++ {
		low := RadiusPixels(bari, 150, &fixedViewport{zoom: zoom})
		high := RadiusPixels(bari, 150, &fixedViewport{zoom: zoom + 1})
		assert.InDeltaf(t, 2*low, high, 1e-9*high, "zoom %v", zoom)
	}
}

func TestRadiusPixelsCalibration(t *testing.T) {
	// At zoom 0 a 256px tile spans the whole equator.
	equator := geo.Point{}
	px := RadiusPixels(equator, 2*3.141592653589793*MercatorRadius, &fixedViewport{zoom: 0})
	assert.InDelta(t, TileSize, px, 1e-6)

	// Converting back with the ground resolution yields the configured meters.
	for _, zoom := range []float64{12, 16, 18.5} {
		px := RadiusPixels(bari, 150, &fixedViewport{zoom: zoom})
		assert.InDelta(t, 150, px*MetersPerPixel(bari.Lat, zoom), 1e-9)
	}
}

type scaledViewport struct {
	fixedViewport
	pixelsPerMeter float64
}

func (v *scaledViewport) PixelsPerMeter(_, zoom float64) float64 {
	return v.pixelsPerMeter
}

func TestRadiusPixelsUsesScaler(t *testing.T) {
	v := &scaledViewport{fixedViewport: fixedViewport{zoom: 15}, pixelsPerMeter: 0.5}
	assert.Equal(t, 75.0, RadiusPixels(bari, 150, v))
}

func TestProject(t *testing.T) {
	v := &fixedViewport{zoom: 10, origin: geo.Point{Lat: 42, Lng: 16}}
	other := geo.Point{Lat: 41.5, Lng: 16.5}

	circles := Project([]geo.Point{bari, other}, 150, v)

	require.Len(t, circles, 2)
	assert.Equal(t, v.Project(bari), circles[0].Center)
	assert.Equal(t, v.Project(other), circles[1].Center)
	assert.Equal(t, RadiusPixels(other, 150, v), circles[1].RadiusPixels)
}

func TestProjectWithoutViewport(t *testing.T) {
	assert.Nil(t, Project([]geo.Point{bari}, 150, nil))
}
