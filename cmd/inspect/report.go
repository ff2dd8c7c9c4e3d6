package main

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"spazi/internal/config"
	"spazi/internal/dataset"
	"spazi/internal/layers"
	"spazi/pkg/geo"
	"spazi/pkg/hours"
	"spazi/pkg/spotlight"
)

type overlay struct {
	Color  string `json:"color"`
	ZIndex int    `json:"z_index"`
}

type sourceReport struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Color        string       `json:"color,omitempty"`
	Opacity      float64      `json:"opacity"`
	ZIndexOffset int          `json:"z_index_offset"`
	View         config.View  `json:"view"`
	HeatPoints   [][3]float64 `json:"heat_points,omitempty"`
}

type selection struct {
	ID         string              `json:"id"`
	Name       string              `json:"name"`
	Category   string              `json:"category"`
	Attributes []dataset.Attribute `json:"attributes"`
	Hours      []string            `json:"hours,omitempty"`
}

type report struct {
	Mode     spotlight.Kind                `json:"mode"`
	Keys     []string                      `json:"references,omitempty"`
	Radius   float64                       `json:"radius_meters"`
	Overlay  overlay                       `json:"overlay"`
	Sources  []sourceReport                `json:"sources"`
	Pins     map[string]spotlight.PinState `json:"pins"`
	Open     map[string]bool               `json:"open,omitempty"`
	Selected *selection                    `json:"selected,omitempty"`
	Mask     []spotlight.Circle            `json:"mask"`
}

// openAt is a day and hour to evaluate opening schedules at.
type openAt struct {
	Day  string
	Hour float64
}

// parseViews applies "source=view" overrides on top of the default views.
func parseViews(views *layers.Views, overrides []string) error {
	for _, o := range overrides {
		id, view, ok := strings.Cut(o, "=")
		if !ok {
			return fmt.Errorf("view override %q is not source=view", o)
		}
		if err := views.Set(strings.TrimSpace(id), view); err != nil {
			return fmt.Errorf("view override %q: %w", o, err)
		}
	}
	return nil
}

// parseOpenAt validates the -day/-hour pair. Both must be given together.
func parseOpenAt(set map[string]bool, day string, hour float64) (*openAt, error) {
	switch {
	case !set["day"] && !set["hour"]:
		return nil, nil
	case set["day"] != set["hour"]:
		return nil, errors.New("-day and -hour must be given together")
	}
	day = strings.ToLower(strings.TrimSpace(day))
	if !slices.Contains(hours.Days, day) {
		return nil, fmt.Errorf("unknown day %q, want one of %s", day, strings.Join(hours.Days, ", "))
	}
	if hour < 0 || hour >= 24 {
		return nil, fmt.Errorf("hour %v out of range [0, 24)", hour)
	}
	return &openAt{Day: day, Hour: hour}, nil
}

// viewportCenter returns the configured center unless both -center-lat and
// -center-lng were given.
func viewportCenter(def geo.Point, set map[string]bool, lat, lng float64) (geo.Point, error) {
	switch {
	case !set["center-lat"] && !set["center-lng"]:
		return def, nil
	case set["center-lat"] != set["center-lng"]:
		return geo.Point{}, errors.New("-center-lat and -center-lng must be given together")
	}
	p := geo.Point{Lat: lat, Lng: lng}
	if !p.Valid() {
		return geo.Point{}, fmt.Errorf("center %s is not a valid coordinate", p)
	}
	return p, nil
}

func buildReport(cfg *config.Config, engine *spotlight.Engine, candidates []spotlight.Candidate, views *layers.Views, at *openAt) report {
	mode := engine.Mode()
	out := report{
		Mode:    mode.Kind,
		Radius:  engine.Radius(),
		Overlay: overlay{Color: cfg.Spotlight.OverlayColor, ZIndex: cfg.Spotlight.OverlayZIndex},
		Pins:    engine.Pins(),
		Mask:    engine.Mask(),
	}
	for _, r := range mode.References {
		out.Keys = append(out.Keys, r.Key)
	}

	for _, src := range cfg.Sources {
		sr := sourceReport{
			ID:           src.ID,
			Name:         src.Name,
			Color:        src.Color,
			Opacity:      src.Opacity,
			ZIndexOffset: src.ZIndexOffset,
			View:         views.Get(src.ID),
		}
		if sr.View == config.ViewHeatmap {
			sr.HeatPoints = layers.HeatPoints(candidates, src.ID)
		}
		out.Sources = append(out.Sources, sr)
	}

	if at != nil {
		out.Open = layers.OpenFilter(candidates, at.Day, at.Hour)
	}

	if mode.Kind == spotlight.Single {
		key := mode.Key()
		for _, c := range candidates {
			if c.ID == key {
				out.Selected = describe(c, cfg.InfoPanel.ExcludeFields)
				break
			}
		}
	}
	return out
}

// describe builds the info panel of c. The schedule is shown formatted
// instead of as a raw attribute.
func describe(c spotlight.Candidate, exclude []string) *selection {
	sel := &selection{
		ID:         c.ID,
		Name:       c.Name,
		Category:   c.Category,
		Attributes: dataset.DisplayAttributes(c, append(slices.Clone(exclude), hours.Field)),
	}
	if raw, ok := c.Attributes[hours.Field]; ok && raw != nil {
		if s, err := hours.Parse(raw); err == nil {
			sel.Hours = s.Format()
		}
	}
	return sel
}
