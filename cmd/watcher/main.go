// Command watcher keeps a spotlight engine in sync with the datasets in
// object storage. Every bucket notification for a configured source reloads
// that source and re-applies the active spotlight, which is chosen at startup
// from SPOTLIGHT_SINGLE (a candidate id) or SPOTLIGHT_MULTI=true.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"spazi/internal/config"
	"spazi/internal/dataset"
	"spazi/internal/env"
	"spazi/internal/logger"
	"spazi/internal/metrics"
	"spazi/internal/service"
	"spazi/internal/storage"
	"spazi/pkg/geo"
	"spazi/pkg/graceful"
	"spazi/pkg/kafkaclient"
	"spazi/pkg/spotlight"
)

func main() {
	env.LoadEnv()
	log := logger.Setup()

	ctx, cancel := graceful.Context(context.Background(), log)
	defer cancel()

	cfg, err := config.Load(env.GetEnv("SPOTLIGHT_CONFIG", "config.yaml"))
	if err != nil {
		log.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	s3Service, err := storage.NewS3Service(log)
	if err != nil {
		log.Error("Failed to connect to object storage", "err", err)
		os.Exit(1)
	}

	reg := metrics.NewRegistry()
	rec := metrics.New(reg)
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go serveMetrics(ctx, addr, reg, log)
	}

	candidates, err := dataset.LoadAll(ctx, s3Service, cfg.Sources, log)
	if err != nil {
		log.Warn("Some sources failed to load", "err", err)
	}
	engine := spotlight.NewEngine(candidates,
		spotlight.WithRadius(cfg.Spotlight.RadiusMeters),
		spotlight.WithObserver(rec),
	)

	w := newWatcher(cfg, s3Service.Bucket(), engine, candidates, rec, log)
	if err := w.activate(os.Getenv("SPOTLIGHT_SINGLE"), os.Getenv("SPOTLIGHT_MULTI") == "true"); err != nil {
		log.Warn("Starting without a spotlight", "err", err)
	}
	log.Info("Engine ready", "candidates", len(candidates), "radius", engine.Radius(), "mode", engine.Mode().Kind.String())

	consumer := kafkaclient.NewKafkaConsumer(kafkaclient.Config{
		Broker:  env.MustGetEnv("KAFKA_BROKER"),
		Topic:   env.MustGetEnv("KAFKA_TOPIC"),
		GroupID: env.MustGetEnv("KAFKA_GROUP_ID"),
	}, log)
	consumer.StartConsuming(ctx)
	defer consumer.Stop()

	loader := func(ctx context.Context, bucket, key string) ([]geo.Record, error) {
		records, err := s3Service.GetDataset(ctx, bucket, key)
		if err != nil {
			w.failed(key, err)
		}
		return records, err
	}
	iterator := service.NewIterator[[]geo.Record](consumer, loader, log)
	iterator.Accept = w.watches
	for obj := range iterator.Objects(ctx) {
		w.reload(obj.Key, obj.Data)
	}
	log.Info("Watcher stopped")
}

func serveMetrics(ctx context.Context, addr string, reg prometheus.Gatherer, log *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HandlerFor(reg))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("Serving metrics", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("Metrics server failed", "err", err)
	}
}
