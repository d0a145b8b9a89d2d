package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/gyaneshwarpardhi/timeslice/event"
	"github.com/gyaneshwarpardhi/timeslice/internal/config"
	"github.com/gyaneshwarpardhi/timeslice/internal/pipeline"
	"github.com/gyaneshwarpardhi/timeslice/internal/runner"
)

// withFlag collects repeatable -with name=path secondary stream arguments.
type withFlag map[string]string

func (w withFlag) String() string {
	parts := make([]string, 0, len(w))
	for k, v := range w {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (w withFlag) Set(s string) error {
	name, path, ok := strings.Cut(s, "=")
	if !ok || name == "" || path == "" {
		return fmt.Errorf("want name=path, got %q", s)
	}
	w[name] = path
	return nil
}

func main() {
	cfgPath := flag.String("config", "pipelines.yaml", "Path to pipelines YAML config")
	pipelineID := flag.String("pipeline", "", "ID of the pipeline to run")
	input := flag.String("input", "-", "Primary events JSON file (\"-\" for stdin)")
	with := withFlag{}
	flag.Var(with, "with", "Secondary stream as name=path (repeatable)")
	watch := flag.Bool("watch", false, "Rerun whenever the config file changes")
	dumpMetrics := flag.Bool("metrics", false, "Dump collected metrics to stderr on exit")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if *pipelineID == "" {
		slog.Error("missing required -pipeline flag")
		os.Exit(2)
	}

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	// ── Compile pipelines ─────────────────────────────────────────────────────
	reg := pipeline.NewRegistry()
	set, err := pipeline.Build(cfg, reg)
	if err != nil {
		slog.Error("failed to build pipelines", "err", err)
		os.Exit(1)
	}
	slog.Info("pipelines built", "count", set.Len())

	// ── Load streams ──────────────────────────────────────────────────────────
	streams, err := loadStreams(*input, with)
	if err != nil {
		slog.Error("failed to load events", "err", err)
		os.Exit(1)
	}
	slog.Info("events loaded", "primary", len(streams.Primary), "secondary", len(streams.Named))

	// ── Runner ────────────────────────────────────────────────────────────────
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := runner.New(ctx, set, cfg.Runner)

	runOnce := func() int {
		res, err := run.RunSync(ctx, *pipelineID, streams)
		if err != nil {
			slog.Error("run failed", "err", err)
			return 1
		}
		if res.Error != "" {
			slog.Error("run failed", "run_id", res.RunID, "err", res.Error)
			return 1
		}
		slog.Info("run complete", "run_id", res.RunID, "events_out", len(res.Events), "duration_ms", res.DurationMs)
		if err := writeEvents(os.Stdout, res.Events); err != nil {
			slog.Error("failed to write output", "err", err)
			return 1
		}
		return 0
	}

	code := runOnce()

	if *watch && code == 0 {
		// ── Hot-reload watcher ────────────────────────────────────────────────
		loader.OnChange(func(newCfg *config.PipelineConfig) {
			if err := config.Validate(newCfg); err != nil {
				slog.Warn("hot-reload skipped: config invalid", "err", err)
				return
			}
			newSet, err := pipeline.Build(newCfg, reg)
			if err != nil {
				slog.Warn("hot-reload skipped: pipeline build failed", "err", err)
				return
			}
			run.SwapSet(newSet)
			slog.Info("pipelines hot-reloaded", "count", newSet.Len())
			runOnce()
		})
		stopWatch, err := loader.Watch()
		if err != nil {
			slog.Error("config watcher unavailable", "err", err)
			os.Exit(1)
		}
		defer stopWatch()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down…")
	}

	cancel() // stop workers
	run.Shutdown()

	if *dumpMetrics {
		if err := dumpGathered(os.Stderr); err != nil {
			slog.Warn("failed to dump metrics", "err", err)
		}
	}
	os.Exit(code)
}

// loadStreams reads the primary and secondary event streams. Events lacking an
// ID get a fresh UUID.
func loadStreams(primary string, with map[string]string) (*pipeline.Streams, error) {
	events, err := readEvents(primary)
	if err != nil {
		return nil, fmt.Errorf("input %s: %w", primary, err)
	}
	named := make(map[string][]event.Event, len(with))
	for name, path := range with {
		evs, err := readEvents(path)
		if err != nil {
			return nil, fmt.Errorf("stream %s (%s): %w", name, path, err)
		}
		named[name] = evs
	}
	return &pipeline.Streams{Primary: events, Named: named}, nil
}

func readEvents(path string) ([]event.Event, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var events []event.Event
	if err := json.NewDecoder(r).Decode(&events); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.New().String()
		}
	}
	return events, nil
}

func writeEvents(w io.Writer, events []event.Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if events == nil {
		events = []event.Event{}
	}
	return enc.Encode(events)
}

// dumpGathered writes all registered metric families in text exposition format.
func dumpGathered(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, f := range families {
		if err := enc.Encode(f); err != nil {
			return err
		}
	}
	return nil
}
