package main

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spazi/internal/config"
	"spazi/internal/dataset"
	"spazi/pkg/geo"
	"spazi/pkg/spotlight"
)

type reloads map[string][]error

func (r reloads) Reloaded(source string, err error) {
	r[source] = append(r[source], err)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
sources:
  - id: spazi
    spotlight_enabled: true
    show_in_multi_spotlight: true
  - id: consumo
    object: datasets/consumo.json
`))
	require.NoError(t, err)
	return cfg
}

func TestWatcherReload(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	initial := append(
		dataset.Build(cfg.Sources[0], []geo.Record{{"Latitudine": 41.1180, "Longitudine": 16.8701}}, log),
		dataset.Build(cfg.Sources[1], []geo.Record{{"Latitudine": 41.1184, "Longitudine": 16.8701}}, log)...,
	)
	engine := spotlight.NewEngine(initial)

	rec := reloads{}
	w := newWatcher(cfg, "lotta", engine, initial, rec, log)
	require.NoError(t, w.activate("spazi/0", false))

	assert.True(t, w.watches("lotta", "datasets/spazi.json"))
	assert.True(t, w.watches("lotta", "datasets/consumo.json"))
	assert.False(t, w.watches("lotta", "datasets/other.json"))
	assert.False(t, w.watches("someone-else", "datasets/spazi.json"))

	// The consumo place moves out of the 150 m circle.
	w.reload("datasets/consumo.json", []geo.Record{{"Latitudine": 41.2000, "Longitudine": 16.8701}})
	assert.Equal(t, spotlight.Single, engine.Mode().Kind)
	pin, ok := engine.Pin("consumo/0")
	require.True(t, ok)
	assert.False(t, pin.Visible)
	assert.Equal(t, []error{nil}, rec["consumo"])

	// The spotlighted place disappears from its dataset.
	w.reload("datasets/spazi.json", nil)
	assert.Equal(t, spotlight.Inactive, engine.Mode().Kind)
	pin, _ = engine.Pin("consumo/0")
	assert.True(t, pin.Visible)

	w.failed("datasets/spazi.json", errors.New("boom"))
	w.failed("datasets/other.json", errors.New("ignored"))
	assert.Len(t, rec["spazi"], 2)
	assert.Error(t, rec["spazi"][1])
	assert.NotContains(t, rec, "other")
}

func TestWatcherKeepsMultiAcrossReloads(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig(t)

	initial := dataset.Build(cfg.Sources[0], []geo.Record{{"Latitudine": 41.1180, "Longitudine": 16.8701}}, log)
	engine := spotlight.NewEngine(initial)
	w := newWatcher(cfg, "lotta", engine, initial, reloads{}, log)

	assert.ErrorIs(t, w.activate("spazi/99", false), spotlight.ErrUnknownCandidate)
	require.NoError(t, w.activate("", true))
	require.Len(t, engine.Mode().References, 1)

	w.reload("datasets/spazi.json", []geo.Record{
		{"Latitudine": 41.1180, "Longitudine": 16.8701},
		{"Latitudine": 41.1250, "Longitudine": 16.8701},
	})
	assert.Equal(t, spotlight.Multi, engine.Mode().Kind)
	assert.Len(t, engine.Mode().References, 2)

	w.reload("datasets/consumo.json", []geo.Record{{"Latitudine": 41.3000, "Longitudine": 16.8701}})
	pin, ok := engine.Pin("consumo/0")
	require.True(t, ok)
	assert.False(t, pin.Visible)
}

func TestWatcherActivateNothing(t *testing.T) {
	engine := spotlight.NewEngine(nil)
	w := newWatcher(testConfig(t), "lotta", engine, nil, reloads{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.NoError(t, w.activate("", false))
	assert.False(t, engine.IsActive())
}
