package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"probeid/internal/codec"
	"probeid/internal/logger"
	"probeid/internal/probe"
	"probeid/internal/registry"
	"probeid/internal/service"
	"probeid/internal/taxonomy"
)

var (
	fixtureFlag string
	formatFlag  string
	latencyFlag string
	traceFlag   bool
)

var identifyCmd = &cobra.Command{
	Use:   "identify [fixture]",
	Short: "Identify the board described by a fixture",
	Long: `Identify walks the taxonomy against a simulated probe loaded from a
fixture file and prints the identified target with its capabilities.

The fixture comes from the argument, --fixture, or probe.fixture in the
config file, in that order. The command exits non-zero when no target
matches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIdentify,
}

func init() {
	identifyCmd.Flags().StringVarP(&fixtureFlag, "fixture", "f", "", "fixture file describing the board")
	identifyCmd.Flags().StringVarP(&formatFlag, "format", "o", "", "output format (text, json, yaml)")
	identifyCmd.Flags().StringVar(&latencyFlag, "latency", "", "simulated per-read latency (e.g. 2ms)")
	identifyCmd.Flags().BoolVar(&traceFlag, "trace", false, "print every node visited to stderr")
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	path, err := fixturePath(args)
	if err != nil {
		return err
	}
	exporter, err := codec.ForFormat(outputFormat(), cfg.Output.Color)
	if err != nil {
		return err
	}
	_, p, err := openProbe(path)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if traceFlag {
		errOut := cmd.ErrOrStderr()
		ctx = registry.WithTrace(ctx, &registry.Trace{
			NodeVisited: func(v registry.Visit) { printVisit(errOut, v) },
		})
	}

	id, err := newService(nil).Identify(ctx, p)
	if err != nil {
		if errors.Is(err, service.ErrNoTarget) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	defer id.Close()

	return exporter.Export(id.Report, cmd.OutOrStdout())
}

// fixturePath picks the fixture from the argument, the flag or the config
func fixturePath(args []string) (string, error) {
	switch {
	case len(args) > 0:
		return args[0], nil
	case fixtureFlag != "":
		return fixtureFlag, nil
	case cfg.Probe.Fixture != "":
		return cfg.Probe.Fixture, nil
	}
	return "", errors.New("no fixture given (pass a path, --fixture, or set probe.fixture in the config)")
}

func outputFormat() string {
	if formatFlag != "" {
		return formatFlag
	}
	return cfg.Output.Format
}

// openProbe loads a fixture into a simulator and wraps it with the retry
// policy of the effective speed profile. The simulator is returned too so
// callers can reload it.
func openProbe(path string) (*probe.Sim, probe.Probe, error) {
	fixture, err := probe.LoadFixture(path)
	if err != nil {
		return nil, nil, err
	}

	var opts []probe.SimOption
	latency, err := simLatency()
	if err != nil {
		return nil, nil, err
	}
	if latency > 0 {
		opts = append(opts, probe.WithLatency(latency))
	}

	sim := probe.NewSim(fixture, opts...)
	profile := cfg.EffectiveProfile()
	log := logger.WithComponent("cli")
	log.Debug().
		Str("fixture", fixture.Name).
		Int("clock_khz", profile.ClockKHz).
		Dur("read_timeout", profile.ReadTimeout).
		Int("attempts", profile.Attempts()).
		Msg("Probe attached")

	return sim, probe.WithRetry(sim, profile.Attempts(), profile.ReadTimeout), nil
}

// simLatency returns the per-read delay from --latency or the config
func simLatency() (time.Duration, error) {
	if latencyFlag != "" {
		d, err := time.ParseDuration(latencyFlag)
		if err != nil {
			return 0, fmt.Errorf("invalid --latency: %w", err)
		}
		return d, nil
	}
	if cfg.Probe.Latency != nil {
		return cfg.Probe.Latency.Duration(), nil
	}
	return 0, nil
}

func newService(bus *service.EventBus) *service.IdentifyService {
	walker := taxonomy.NewWalker(registry.WithLogger(logger.WithComponent("walker")))
	return service.NewIdentifyService(walker,
		service.WithEventBus(bus),
		service.WithLogger(logger.WithComponent("identify")),
		service.WithCapabilities(&cfg.Capabilities),
	)
}

var (
	outcomeMatched  = color.New(color.FgGreen, color.Bold).SprintFunc()
	outcomeClaimed  = color.New(color.FgGreen).SprintFunc()
	outcomeRejected = color.New(color.FgHiBlack).SprintFunc()
	outcomeFailed   = color.New(color.FgRed).SprintFunc()
	outcomeOther    = color.New(color.FgYellow).SprintFunc()
)

func printVisit(w io.Writer, v registry.Visit) {
	var outcome string
	switch v.Outcome {
	case registry.OutcomeMatched:
		outcome = outcomeMatched(v.Outcome)
	case registry.OutcomeClaimed:
		outcome = outcomeClaimed(v.Outcome)
	case registry.OutcomeRejected:
		outcome = outcomeRejected(v.Outcome)
	case registry.OutcomeViolation:
		outcome = outcomeFailed(v.Outcome)
	default:
		outcome = outcomeOther(v.Outcome)
	}
	fmt.Fprintf(w, "%-40s %-13s %s\n", v.Path, v.Role, outcome)
}
