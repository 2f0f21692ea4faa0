package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-course-patterns/internal/observer"
	"github.com/noah-isme/sma-course-patterns/internal/service"
	"github.com/noah-isme/sma-course-patterns/pkg/config"
	"github.com/noah-isme/sma-course-patterns/pkg/logger"
	"github.com/noah-isme/sma-course-patterns/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	timetable := observer.NewTimetableRecorder()

	sinks := openSinks(ctx, cfg, logr)
	defer sinks.Close()

	d := &demo{
		out:     os.Stdout,
		metrics: metrics,
		logger:  logr,
		shared:  append([]service.Observer{timetable}, sinks.observers...),
	}
	if err := d.run(); err != nil {
		sinks.Close()
		logr.Fatal("demo failed", zap.Error(err))
	}
	sinks.Close()

	if cfg.Export.Enabled {
		if err := exportTimetable(cfg, timetable, metrics, logr); err != nil {
			logr.Fatal("timetable export failed", zap.Error(err))
		}
	}

	dumpMetrics(metrics, cfg.Metrics.TextfilePath, logr)

	snap := metrics.Snapshot()
	logr.Info("demo finished",
		zap.Uint64("events", snap.Events),
		zap.Uint64("deliveries", snap.Deliveries),
		zap.Uint64("delivery_failures", snap.DeliveryFailures),
		zap.Uint64("exports", snap.Exports),
	)
}

func exportTimetable(cfg *config.Config, timetable *observer.TimetableRecorder, metrics *service.MetricsService, logr *zap.Logger) error {
	formats, err := service.ParseExportFormats(cfg.Export.Formats)
	if err != nil {
		return err
	}

	store, err := storage.NewLocalStorage(cfg.Export.StorageDir)
	if err != nil {
		return err
	}

	exporter := service.NewTimetableExportService(timetable, store, service.TimetableExportConfig{
		BaseName: cfg.Export.BaseName,
		Title:    "Course timetable",
		Location: cfg.Export.Location(),
	}, metrics, logr)

	results, err := exporter.ExportAll(formats)
	for _, result := range results {
		logr.Info("timetable file written", zap.String("format", string(result.Format)), zap.String("path", store.Path(result.RelativePath)))
	}
	return err
}

// dumpMetrics writes the collectors to path when one is configured. Failures are only logged.
func dumpMetrics(metrics *service.MetricsService, path string, logr *zap.Logger) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		logr.Warn("failed to write metrics textfile", zap.String("path", path), zap.Error(err))
		return
	}
	logr.Info("metrics textfile written", zap.String("path", path))
}
