package dataset

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"spazi/internal/config"
	"spazi/pkg/geo"
	"spazi/pkg/location"
)

// Geocoder resolves an address to a place.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*location.Location, error)
}

// FillCoordinates geocodes the address of every record that has no usable
// coordinates and writes the result into the first configured lat/lng
// fields. Lookup failures leave the record untouched. It returns how many
// records were filled; the error is only set when ctx ends.
func FillCoordinates(ctx context.Context, g Geocoder, src config.Source, records []geo.Record, log *slog.Logger) (int, error) {
	log = orDefault(log)
	if len(src.Fields.Lat) == 0 || len(src.Fields.Lng) == 0 {
		return 0, nil
	}
	filled := 0
	for i, rec := range records {
		if _, ok := geo.ResolveCoordinate(rec, src.Fields.Lat, src.Fields.Lng); ok {
			continue
		}
		address, ok := geo.FieldString(rec, src.Fields.Address)
		if !ok || address == "" {
			continue
		}
		query := address
		if src.GeocodeSuffix != "" && !strings.Contains(strings.ToLower(address), strings.ToLower(src.GeocodeSuffix)) {
			query += ", " + src.GeocodeSuffix
		}

		loc, err := g.Geocode(ctx, query)
		if err != nil {
			if ctx.Err() != nil {
				return filled, ctx.Err()
			}
			level := slog.LevelWarn
			if errors.Is(err, location.ErrNotFound) {
				level = slog.LevelInfo
			}
			log.Log(ctx, level, "Geocoding failed", "source", src.ID, "index", i, "query", query, "err", err)
			continue
		}
		if !loc.Point.Valid() {
			continue
		}
		rec[src.Fields.Lat[0]] = loc.Point.Lat
		rec[src.Fields.Lng[0]] = loc.Point.Lng
		filled++
	}
	log.Info("Geocoded records", "source", src.ID, "filled", filled)
	return filled, nil
}
