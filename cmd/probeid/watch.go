package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"probeid/internal/codec"
	"probeid/internal/logger"
	"probeid/internal/probe"
	"probeid/internal/registry"
	"probeid/internal/service"
	"probeid/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch [fixture...]",
	Short: "Re-identify boards whenever their fixtures change",
	Long: `Watch identifies every given fixture once, then watches the files and
re-runs the identification each time one is saved. Use --trace to see the
nodes each walk visits.

Press Ctrl-C to stop.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&formatFlag, "format", "o", "", "output format (text, json, yaml)")
	watchCmd.Flags().StringVar(&latencyFlag, "latency", "", "simulated per-read latency (e.g. 2ms)")
	watchCmd.Flags().BoolVar(&traceFlag, "trace", false, "print every node visited to stderr")
	rootCmd.AddCommand(watchCmd)
}

// board is one watched fixture and the simulator serving it
type board struct {
	path  string
	sim   *probe.Sim
	probe probe.Probe
}

func runWatch(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 && cfg.Probe.Fixture != "" {
		paths = []string{cfg.Probe.Fixture}
	}
	if len(paths) == 0 {
		return errors.New("no fixtures given (pass paths or set probe.fixture in the config)")
	}

	exporter, err := codec.ForFormat(outputFormat(), cfg.Output.Color)
	if err != nil {
		return err
	}

	boards := make(map[string]*board, len(paths))
	watched := make([]string, 0, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		sim, p, err := openProbe(abs)
		if err != nil {
			return err
		}
		boards[abs] = &board{path: abs, sim: sim, probe: p}
		watched = append(watched, abs)
	}

	log := logger.WithComponent("cli")
	bus := service.NewEventBus()
	events := make(chan service.Event, 100)
	bus.Subscribe(events)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		printEvents(cmd.ErrOrStderr(), events)
	}()
	defer func() {
		bus.Unsubscribe(events)
		close(events)
		wg.Wait()
	}()

	ctx := cmd.Context()
	svc := newService(bus)
	out := cmd.OutOrStdout()
	identify := func(b *board) {
		if err := identifyBoard(ctx, svc, exporter, b, out); err != nil {
			log.Warn().Err(err).Str("fixture", b.path).Msg("Identification failed")
		}
	}

	for _, path := range watched {
		identify(boards[path])
	}

	w := watcher.New(watched, func(path string) {
		b, ok := boards[path]
		if !ok {
			return
		}
		fixture, err := probe.LoadFixture(path)
		if err != nil {
			log.Warn().Err(err).Str("fixture", path).Msg("Cannot reload fixture, keeping the previous board")
			return
		}
		b.sim.Reload(fixture)
		bus.Publish(service.Event{
			Type:    service.EventFixtureReloaded,
			Payload: map[string]string{"path": path, "name": fixture.Name},
		})
		identify(b)
	},
		watcher.WithDebounce(cfg.Watch.Debounce.Duration()),
		watcher.WithLogger(logger.WithComponent("watcher")),
	)

	log.Info().Strs("fixtures", watched).Msg("Watching fixtures")
	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func identifyBoard(ctx context.Context, svc *service.IdentifyService, exporter codec.Exporter, b *board, out io.Writer) error {
	id, err := svc.Identify(ctx, b.probe)
	if err != nil {
		if errors.Is(err, service.ErrNoTarget) {
			fmt.Fprintf(out, "%s: no target identified\n", filepath.Base(b.path))
			return nil
		}
		return err
	}
	defer id.Close()
	return exporter.Export(id.Report, out)
}

// printEvents renders bus traffic until events is closed
func printEvents(w io.Writer, events <-chan service.Event) {
	for event := range events {
		switch event.Type {
		case service.EventNodeVisited:
			if v, ok := event.Payload.(registry.Visit); ok && traceFlag {
				printVisit(w, v)
			}
		case service.EventFixtureReloaded:
			if m, ok := event.Payload.(map[string]string); ok {
				fmt.Fprintf(w, "reloaded %s\n", m["path"])
			}
		}
	}
}
