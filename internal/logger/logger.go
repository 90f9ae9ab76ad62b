// Package logger provides structured logging using zerolog
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	mu           sync.RWMutex
	globalLogger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Config selects level, destination and time format
type Config struct {
	Level      string `json:"level" yaml:"level"`
	Debug      bool   `json:"debug" yaml:"debug"`
	Output     string `json:"output" yaml:"output"` // stderr (default), stdout or console
	TimeFormat string `json:"time_format" yaml:"time_format"`
	NoColor    bool   `json:"no_color" yaml:"no_color"` // console output only
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}

// New builds a logger from config without touching the global one
func New(config Config) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if config.Debug {
		level = zerolog.DebugLevel
	} else if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("log level: %w", err)
		}
	}

	output, err := writer(config)
	if err != nil {
		return zerolog.Nop(), err
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger(), nil
}

// Init replaces the global logger
func Init(config Config) error {
	l, err := New(config)
	if err != nil {
		return err
	}
	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	mu.Lock()
	globalLogger = l
	mu.Unlock()
	log.Logger = l
	return nil
}

func writer(config Config) (io.Writer, error) {
	switch config.Output {
	case "", "stderr":
		return os.Stderr, nil
	case "stdout":
		return os.Stdout, nil
	case "console":
		format := config.TimeFormat
		if format == "" {
			format = time.Kitchen
		}
		return zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: format, NoColor: config.NoColor}, nil
	default:
		return nil, fmt.Errorf("unknown log output %q", config.Output)
	}
}

// Get returns the global logger
func Get() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// WithComponent returns the global logger tagged with a component name
func WithComponent(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// NewTestLogger returns a logger that discards everything
func NewTestLogger() zerolog.Logger {
	return zerolog.New(io.Discard).Level(zerolog.Disabled)
}
