package main

import (
	"log/slog"

	"spazi/internal/config"
	"spazi/internal/dataset"
	"spazi/internal/storage"
	"spazi/pkg/geo"
	"spazi/pkg/spotlight"
)

type reloadRecorder interface {
	Reloaded(source string, err error)
}

// watcher maps object keys in its bucket back to sources and folds reloaded
// datasets into the engine. It is driven from a single goroutine.
type watcher struct {
	bucket     string
	sources    map[string]config.Source
	engine     *spotlight.Engine
	candidates []spotlight.Candidate
	rec        reloadRecorder
	log        *slog.Logger
}

func newWatcher(cfg *config.Config, bucket string, engine *spotlight.Engine, candidates []spotlight.Candidate, rec reloadRecorder, log *slog.Logger) *watcher {
	w := &watcher{
		bucket:     bucket,
		sources:    make(map[string]config.Source, len(cfg.Sources)),
		engine:     engine,
		candidates: candidates,
		rec:        rec,
		log:        log,
	}
	for _, src := range cfg.Sources {
		w.sources[storage.ObjectKey(src)] = src
	}
	return w
}

// activate turns on the spotlight the watcher keeps across reloads: the
// single candidate when one is named, else the multi spotlight when asked.
func (w *watcher) activate(single string, multi bool) error {
	switch {
	case single != "":
		return w.engine.ActivateSingle(single)
	case multi:
		return w.engine.ActivateMulti()
	}
	return nil
}

func (w *watcher) watches(bucket, key string) bool {
	if bucket != w.bucket {
		return false
	}
	_, ok := w.sources[key]
	return ok
}

func (w *watcher) reload(key string, records []geo.Record) {
	src, ok := w.sources[key]
	if !ok {
		return
	}
	fresh := dataset.Build(src, records, w.log)
	w.candidates = dataset.ReplaceSource(w.candidates, src.ID, fresh)
	w.engine.Replace(w.candidates)
	w.rec.Reloaded(src.ID, nil)

	mode := w.engine.Mode()
	w.log.Info("Reloaded source", "source", src.ID, "candidates", len(fresh),
		"mode", mode.Kind.String(), "references", len(mode.References))
}

func (w *watcher) failed(key string, err error) {
	if src, ok := w.sources[key]; ok {
		w.rec.Reloaded(src.ID, err)
	}
}
