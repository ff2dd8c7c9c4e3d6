// Command inspect loads the configured datasets, applies a spotlight and
// prints what a renderer would draw as JSON: pin states, the mask, per-source
// layers and, for a single spotlight, the info panel of the selected place.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"
	"time"

	"spazi/internal/config"
	"spazi/internal/dataset"
	"spazi/internal/env"
	"spazi/internal/layers"
	"spazi/internal/logger"
	"spazi/internal/storage"
	"spazi/pkg/spotlight"
	"spazi/pkg/viewport"
)

type viewFlags []string

func (v *viewFlags) String() string { return strings.Join(*v, ",") }

func (v *viewFlags) Set(s string) error {
	*v = append(*v, s)
	return nil
}

func main() {
	env.LoadEnv()
	log := logger.Setup()

	var views viewFlags
	configPath := flag.String("config", env.GetEnv("SPOTLIGHT_CONFIG", "config.yaml"), "path to the map configuration")
	single := flag.String("single", "", "candidate id to spotlight")
	multi := flag.Bool("multi", false, "spotlight every multi-eligible candidate")
	zoom := flag.Float64("zoom", 0, "viewport zoom (defaults to the configured zoom)")
	width := flag.Int("width", 1024, "viewport width in pixels")
	height := flag.Int("height", 768, "viewport height in pixels")
	centerLat := flag.Float64("center-lat", 0, "viewport center latitude (defaults to the configured center)")
	centerLng := flag.Float64("center-lng", 0, "viewport center longitude (defaults to the configured center)")
	day := flag.String("day", "", "weekday (lunedì..domenica) for the opening-hours filter")
	hour := flag.Float64("hour", 0, "decimal hour for the opening-hours filter, e.g. 14.5")
	flag.Var(&views, "view", "source=pins|heatmap|none, repeatable")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	center, err := viewportCenter(cfg.Map.Center, set, *centerLat, *centerLng)
	if err != nil {
		log.Error("Invalid viewport center", "err", err)
		os.Exit(2)
	}
	at, err := parseOpenAt(set, *day, *hour)
	if err != nil {
		log.Error("Invalid opening-hours filter", "err", err)
		os.Exit(2)
	}
	layerViews := layers.NewViews(cfg.Sources)
	if err := parseViews(layerViews, views); err != nil {
		log.Error("Invalid view", "err", err)
		os.Exit(2)
	}
	z := cfg.Map.Zoom
	if set["zoom"] {
		z = *zoom
	}

	store, err := storage.Open(log)
	if err != nil {
		log.Error("Failed to open dataset storage", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	candidates, err := dataset.LoadAll(ctx, store, cfg.Sources, log)
	if err != nil {
		log.Warn("Some sources failed to load", "err", err)
	}

	engine := spotlight.NewEngine(candidates,
		spotlight.WithRadius(cfg.Spotlight.RadiusMeters),
		spotlight.WithViewport(viewport.NewMercator(center, z, *width, *height)),
	)

	switch {
	case *single != "":
		err = engine.ActivateSingle(*single)
	case *multi:
		err = engine.ActivateMulti()
	}
	if err != nil {
		log.Error("Failed to activate spotlight", "err", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(buildReport(cfg, engine, candidates, layerViews, at)); err != nil {
		log.Error("Failed to write report", "err", err)
		os.Exit(1)
	}
}
