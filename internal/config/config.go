// Package config loads the map, spotlight and data source settings of one map
// view from YAML, applies defaults and environment overrides, and validates
// the result.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"spazi/internal/env"
	"spazi/pkg/geo"
	"spazi/pkg/spotlight"
)

// View is how a source is drawn.
type View string

const (
	ViewPins    View = "pins"
	ViewHeatmap View = "heatmap"
	ViewNone    View = "none"
)

// ParseView validates s as a View.
func ParseView(s string) (View, error) {
	switch v := View(strings.ToLower(strings.TrimSpace(s))); v {
	case ViewPins, ViewHeatmap, ViewNone:
		return v, nil
	default:
		return "", fmt.Errorf("unknown view %q", s)
	}
}

// FieldNames is an ordered alias list. In YAML it is either a single name or
// a sequence of names.
type FieldNames []string

func (f *FieldNames) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*f = FieldNames{value.Value}
		return nil
	}
	var names []string
	if err := value.Decode(&names); err != nil {
		return fmt.Errorf("field names: %w", err)
	}
	*f = names
	return nil
}

type Fields struct {
	Name     FieldNames `yaml:"name"`
	Category FieldNames `yaml:"category"`
	Lat      FieldNames `yaml:"lat"`
	Lng      FieldNames `yaml:"lng"`
	// Address is only read when publishing with geocoding enabled.
	Address FieldNames `yaml:"address"`
}

// Source describes one dataset drawn on the map.
type Source struct {
	ID                   string  `yaml:"id" validate:"required"`
	Name                 string  `yaml:"name"`
	File                 string  `yaml:"file"`
	Object               string  `yaml:"object"`
	Color                string  `yaml:"color"`
	Opacity              float64 `yaml:"opacity" validate:"gte=0,lte=1"`
	DefaultView          View    `yaml:"default_view" validate:"oneof=pins heatmap none"`
	ZIndexOffset         int     `yaml:"z_index_offset"`
	SpotlightEnabled     bool    `yaml:"spotlight_enabled"`
	ShowInMultiSpotlight bool    `yaml:"show_in_multi_spotlight"`
	Fields               Fields  `yaml:"fields"`
	GeocodeSuffix        string  `yaml:"geocode_suffix"`
}

// Spotlight is passed through to the renderer, except RadiusMeters.
type Spotlight struct {
	RadiusMeters  float64 `yaml:"radius_meters" validate:"gt=0"`
	OverlayColor  string  `yaml:"overlay_color"`
	OverlayZIndex int     `yaml:"overlay_z_index"`
}

type Map struct {
	Center  geo.Point `yaml:"center"`
	Zoom    float64   `yaml:"zoom" validate:"gtefield=MinZoom,ltefield=MaxZoom"`
	MinZoom float64   `yaml:"min_zoom" validate:"gte=0"`
	MaxZoom float64   `yaml:"max_zoom" validate:"gtefield=MinZoom"`
}

type InfoPanel struct {
	ExcludeFields []string `yaml:"exclude_fields"`
}

type Config struct {
	Map       Map       `yaml:"map"`
	Spotlight Spotlight `yaml:"spotlight"`
	InfoPanel InfoPanel `yaml:"info_panel"`
	Sources   []Source  `yaml:"sources" validate:"required,min=1,unique=ID,dive"`
}

// Source returns the source with the given id.
func (c *Config) Source(id string) (Source, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

// Defaults returns the configuration used for anything the YAML leaves out.
func Defaults() Config {
	return Config{
		Map: Map{
			Center:  geo.Point{Lat: 41.117982061313434, Lng: 16.86761994470451},
			Zoom:    12,
			MinZoom: 6,
			MaxZoom: 19,
		},
		Spotlight: Spotlight{
			RadiusMeters:  spotlight.DefaultRadiusMeters,
			OverlayColor:  "rgba(0, 0, 0, 0.7)",
			OverlayZIndex: 400,
		},
		InfoPanel: InfoPanel{ExcludeFields: []string{"latitudine", "longitudine"}},
	}
}

// Parse decodes YAML on top of Defaults, fills per-source defaults, applies
// environment overrides and validates.
func Parse(data []byte) (*Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	for i := range cfg.Sources {
		applySourceDefaults(&cfg.Sources[i])
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	return Parse(data)
}

func applySourceDefaults(s *Source) {
	if s.Name == "" {
		s.Name = s.ID
	}
	if s.Opacity == 0 {
		s.Opacity = 1
	}
	if s.DefaultView == "" {
		s.DefaultView = ViewPins
	}
	if len(s.Fields.Lat) == 0 {
		s.Fields.Lat = FieldNames{"Latitudine", "latitudine"}
	}
	if len(s.Fields.Lng) == 0 {
		s.Fields.Lng = FieldNames{"Longitudine", "longitudine"}
	}
	if len(s.Fields.Name) == 0 {
		s.Fields.Name = FieldNames{"Spazio", "spazio"}
	}
	if len(s.Fields.Category) == 0 {
		s.Fields.Category = FieldNames{"Categoria", "categoria"}
	}
	if len(s.Fields.Address) == 0 {
		s.Fields.Address = FieldNames{"Indirizzo", "indirizzo"}
	}
}

func applyEnv(cfg *Config) error {
	radius, ok, err := env.GetFloat("SPOTLIGHT_RADIUS_METERS")
	if err != nil {
		return fmt.Errorf("SPOTLIGHT_RADIUS_METERS: %w", err)
	}
	if ok {
		cfg.Spotlight.RadiusMeters = radius
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks cfg against its struct rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
