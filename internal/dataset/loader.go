// Package dataset turns the raw JSON records of each configured source into
// spotlight candidates.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"spazi/internal/config"
	"spazi/internal/keys"
	"spazi/pkg/geo"
	"spazi/pkg/spotlight"
)

// Fetcher loads the records of one source.
type Fetcher interface {
	Fetch(ctx context.Context, src config.Source) ([]geo.Record, error)
}

// maxParallelFetches bounds concurrent source fetches.
const maxParallelFetches = 4

// Build converts records into candidates in record order. Records without
// usable coordinates keep a nil Point and are logged.
func Build(src config.Source, records []geo.Record, log *slog.Logger) []spotlight.Candidate {
	log = orDefault(log)
	out := make([]spotlight.Candidate, 0, len(records))
	unresolved := 0
	for i, rec := range records {
		c := spotlight.Candidate{
			ID:                keys.Candidate(src.ID, i),
			SourceID:          src.ID,
			SpotlightEligible: src.SpotlightEnabled,
			MultiEligible:     src.ShowInMultiSpotlight,
			Opacity:           src.Opacity,
			Name:              "Unnamed",
			Category:          "Uncategorized",
			Attributes:        map[string]any(rec),
		}
		if name, ok := geo.FieldString(rec, src.Fields.Name); ok {
			c.Name = name
		}
		if cat, ok := geo.FieldString(rec, src.Fields.Category); ok {
			c.Category = cat
		}
		if p, ok := geo.ResolveCoordinate(rec, src.Fields.Lat, src.Fields.Lng); ok {
			c.Point = &p
		} else {
			unresolved++
			log.Warn("Record missing coordinates", "source", src.ID, "id", c.ID, "name", c.Name)
		}
		out = append(out, c)
	}
	log.Info("Built candidates", "source", src.ID, "records", len(records), "unresolved", unresolved)
	return out
}

// LoadSource fetches and builds a single source.
func LoadSource(ctx context.Context, f Fetcher, src config.Source, log *slog.Logger) ([]spotlight.Candidate, error) {
	log = orDefault(log)
	records, err := f.Fetch(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", src.ID, err)
	}
	return Build(src, records, log), nil
}

// LoadAll loads every source concurrently and returns the candidates in
// configured source order. A source that fails is logged and left out; its
// error is part of the joined error returned next to the remaining candidates.
func LoadAll(ctx context.Context, f Fetcher, sources []config.Source, log *slog.Logger) ([]spotlight.Candidate, error) {
	log = orDefault(log)
	results := make([][]spotlight.Candidate, len(sources))
	errs := make([]error, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelFetches)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			cands, err := LoadSource(ctx, f, src, log)
			if err != nil {
				log.Error("Failed to load source", "source", src.ID, "err", err)
				errs[i] = err
				return nil
			}
			results[i] = cands
			return nil
		})
	}
	_ = g.Wait()

	var all []spotlight.Candidate
	for _, r := range results {
		all = append(all, r...)
	}
	return all, errors.Join(errs...)
}

// ReplaceSource swaps the candidates of one source inside all, keeping the
// other sources and their order.
func ReplaceSource(all []spotlight.Candidate, sourceID string, fresh []spotlight.Candidate) []spotlight.Candidate {
	out := make([]spotlight.Candidate, 0, len(all)+len(fresh))
	inserted := false
	for _, c := range all {
		if c.SourceID != sourceID {
			out = append(out, c)
			continue
		}
		if !inserted {
			out = append(out, fresh...)
			inserted = true
		}
	}
	if !inserted {
		out = append(out, fresh...)
	}
	return out
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
