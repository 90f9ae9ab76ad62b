package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"probeid/internal/config"
	"probeid/internal/logger"
)

var (
	cfgFile   string
	logLevel  string
	debugLog  bool
	noColor   bool
	speedFlag string

	cfg     *config.Config
	cfgPath string
)

var rootCmd = &cobra.Command{
	Use:   "probeid",
	Short: "Identify the chip behind a debug probe",
	Long: `probeid walks a taxonomy of architectures, manufacturers, families and
targets, asking the probe at every level whether the attached hardware
belongs there. The first matching target wins and its capabilities
(debug view, memory map, core description) are reported.

Boards are simulated from YAML fixtures describing their registers.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: search "+config.ConfigFileName+" and the config dirs)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&speedFlag, "speed", "", "probe speed profile (safe, normal, fast)")
}

// setup loads the configuration, applies flag overrides and initializes the
// global logger
func setup(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, cfgPath, err = config.LoadFromPath(cfgFile)
	} else {
		cfg, cfgPath, err = config.Load()
	}
	if err != nil {
		return err
	}

	if speedFlag != "" {
		speed := config.Speed(speedFlag)
		if !speed.Known() {
			return fmt.Errorf("unknown speed %q (want safe, normal or fast)", speedFlag)
		}
		cfg.Speed = speed
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if debugLog {
		cfg.Log.Debug = true
	}
	if noColor {
		cfg.Output.Color = false
	}
	if !cfg.Output.Color {
		color.NoColor = true
	}

	return logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Debug:      cfg.Log.Debug,
		Output:     "console",
		TimeFormat: cfg.Log.TimeFormat,
		NoColor:    !cfg.Output.Color,
	})
}
