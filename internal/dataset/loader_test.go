package dataset

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spazi/internal/config"
	"spazi/pkg/geo"
	"spazi/pkg/spotlight"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func source(id string, eligible bool) config.Source {
	return config.Source{
		ID:                   id,
		Opacity:              0.7,
		SpotlightEnabled:     eligible,
		ShowInMultiSpotlight: eligible,
		Fields: config.Fields{
			Name:     config.FieldNames{"Spazio"},
			Category: config.FieldNames{"Categoria"},
			Lat:      config.FieldNames{"Latitudine", "latitudine"},
			Lng:      config.FieldNames{"Longitudine", "longitudine"},
			Address:  config.FieldNames{"Indirizzo"},
		},
	}
}

type mapFetcher map[string][]geo.Record

func (m mapFetcher) Fetch(_ context.Context, src config.Source) ([]geo.Record, error) {
	recs, ok := m[src.ID]
	if !ok {
		return nil, errors.New("not found")
	}
	return recs, nil
}

func TestBuild(t *testing.T) {
	records := []geo.Record{
		{"Spazio": "Parco 2 Giugno", "Categoria": "Parco", "Latitudine": 41.1093, "Longitudine": 16.8780},
		{"Spazio": "Bar Centrale", "latitudine": "41.12", "longitudine": "16.87"},
		{"Categoria": "Piazza"},
	}

	got := Build(source("consumo", false), records, discard)

	require.Len(t, got, 3)
	assert.Equal(t, "consumo/0", got[0].ID)
	assert.Equal(t, "consumo", got[0].SourceID)
	assert.Equal(t, &geo.Point{Lat: 41.1093, Lng: 16.8780}, got[0].Point)
	assert.Equal(t, "Parco 2 Giugno", got[0].Name)
	assert.Equal(t, "Parco", got[0].Category)
	assert.Equal(t, 0.7, got[0].Opacity)
	assert.False(t, got[0].SpotlightEligible)

	assert.Equal(t, &geo.Point{Lat: 41.12, Lng: 16.87}, got[1].Point)
	assert.Equal(t, "Uncategorized", got[1].Category)

	assert.Nil(t, got[2].Point)
	assert.Equal(t, "Unnamed", got[2].Name)
	assert.Equal(t, "Piazza", got[2].Category)
}

func TestLoadAll(t *testing.T) {
	fetcher := mapFetcher{
		"spazi":   {{"Spazio": "A", "Latitudine": 41.11, "Longitudine": 16.87}},
		"consumo": {{"Spazio": "B", "Latitudine": 41.12, "Longitudine": 16.86}, {"Spazio": "C"}},
	}
	sources := []config.Source{source("spazi", true), source("missing", false), source("consumo", false)}

	got, err := LoadAll(context.Background(), fetcher, sources, discard)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "source missing")
	ids := make([]string, len(got))
	for i, c := range got {
		ids[i] = c.ID
	}
	assert.Equal(t, []string{"spazi/0", "consumo/0", "consumo/1"}, ids)
	assert.True(t, got[0].SpotlightEligible)
	assert.True(t, got[0].MultiEligible)
}

func TestLoadAllFeedsEngine(t *testing.T) {
	ref := geo.Point{Lat: 41.1180, Lng: 16.8701}
	fetcher := mapFetcher{
		"spazi": {{"Spazio": "Ref", "Latitudine": ref.Lat, "Longitudine": ref.Lng}},
		"consumo": {
			{"Spazio": "Near", "latitudine": 41.1184, "longitudine": 16.8701},
			{"Spazio": "Far", "latitudine": 41.1300, "longitudine": 16.8701},
			{"Spazio": "Unknown"},
		},
	}
	got, err := LoadAll(context.Background(), fetcher, []config.Source{source("spazi", true), source("consumo", false)}, discard)
	require.NoError(t, err)

	e := spotlight.NewEngine(got, spotlight.WithRadius(150))
	require.NoError(t, e.ActivateSingle("spazi/0"))

	near, _ := e.Pin("consumo/0")
	far, _ := e.Pin("consumo/1")
	unknown, _ := e.Pin("consumo/2")
	assert.True(t, near.Visible)
	assert.False(t, far.Visible)
	assert.True(t, unknown.Visible)
}

func TestReplaceSource(t *testing.T) {
	all := []spotlight.Candidate{{ID: "a/0", SourceID: "a"}, {ID: "b/0", SourceID: "b"}, {ID: "b/1", SourceID: "b"}, {ID: "c/0", SourceID: "c"}}

	got := ReplaceSource(all, "b", []spotlight.Candidate{{ID: "b/0", SourceID: "b", Name: "fresh"}})
	require.Len(t, got, 3)
	assert.Equal(t, "a/0", got[0].ID)
	assert.Equal(t, "fresh", got[1].Name)
	assert.Equal(t, "c/0", got[2].ID)

	added := ReplaceSource(all, "d", []spotlight.Candidate{{ID: "d/0", SourceID: "d"}})
	assert.Len(t, added, 5)
	assert.Equal(t, "d/0", added[4].ID)
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	src := source("spazi", true)
	records := []geo.Record{{"Latitudine": 41.0, "Longitudine": 16.0}, {"Spazio": "senza coordinate"}}
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
	}{
		{"Build", func() error {
			assert.Len(t, Build(src, records, nil), 2)
			return nil
		}},
		{"LoadSource", func() error {
			_, err := LoadSource(ctx, mapFetcher{"spazi": records}, src, nil)
			return err
		}},
		{"LoadAll with a failing source", func() error {
			_, err := LoadAll(ctx, mapFetcher{}, []config.Source{src}, nil)
			assert.Error(t, err)
			return nil
		}},
		{"FillCoordinates", func() error {
			_, err := FillCoordinates(ctx, &stubGeocoder{}, src, []geo.Record{{"Indirizzo": "Via Sparano"}}, nil)
			return err
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.NoError(t, tc.run())
			})
		})
	}
}
