// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"starclust/internal/align"
	"starclust/internal/logging"
	"starclust/internal/native"
	"starclust/internal/seqio"
	"starclust/internal/writers"
)

// Options holds all CLI settings after defaults, config file, environment
// and flags have been layered.
type Options struct {
	// Clustering
	Distance int     `mapstructure:"distance"`
	Ratio    float64 `mapstructure:"ratio"`

	// Input
	InputFormat string `mapstructure:"input-format"`
	TempDir     string `mapstructure:"temp-dir"`
	KeepTemp    bool   `mapstructure:"keep-temp"`

	// Output
	Output      string `mapstructure:"output"`
	Out         string `mapstructure:"out"`
	Sort        bool   `mapstructure:"sort"`
	MetricsFile string `mapstructure:"metrics-file"`

	// Diagnostics
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`
	Quiet     bool   `mapstructure:"quiet"`
}

// Defaults returns the built-in settings.
func Defaults() Options {
	return Options{
		Distance:    align.DefaultDistance,
		Ratio:       align.DefaultRatio,
		InputFormat: seqio.FormatAuto,
		Output:      writers.FormatText,
		LogLevel:    "warn",
		LogFormat:   logging.FormatAuto,
	}
}

// Validate checks ranges and enumerations. Messages name the flag.
func (o Options) Validate() error {
	if o.Distance < 0 {
		return errors.New("--distance must be ≥ 0")
	}
	if o.Distance > native.MaxTau {
		return fmt.Errorf("--distance must be ≤ %d", native.MaxTau)
	}
	if math.IsNaN(o.Ratio) || math.IsInf(o.Ratio, 0) || o.Ratio <= 0 {
		return errors.New("--ratio must be a finite number > 0")
	}
	if !writers.Known(o.Output) {
		return fmt.Errorf("invalid --output %q (want %s)", o.Output, strings.Join(writers.Formats(), " | "))
	}
	if !oneOf(o.InputFormat, seqio.Formats) {
		return fmt.Errorf("invalid --input-format %q (want %s)", o.InputFormat, strings.Join(seqio.Formats, " | "))
	}
	if _, err := logging.ParseLevel(o.LogLevel); err != nil {
		return fmt.Errorf("invalid --log-level: %v", err)
	}
	if !oneOf(o.LogFormat, []string{logging.FormatAuto, logging.FormatText, logging.FormatJSON}) {
		return fmt.Errorf("invalid --log-format %q", o.LogFormat)
	}
	return nil
}

func oneOf(s string, set []string) bool {
	for _, x := range set {
		if s == x {
			return true
		}
	}
	return false
}
