// internal/cli/flags.go
package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"starclust/internal/seqio"
	"starclust/internal/writers"
)

// EnvPrefix prefixes every environment override, e.g. STARCLUST_RATIO.
const EnvPrefix = "STARCLUST"

// RegisterFlags adds every setting to fs with its built-in default.
func RegisterFlags(fs *pflag.FlagSet) {
	d := Defaults()

	fs.IntP("distance", "d", d.Distance, "maximum Levenshtein distance for merging")
	fs.Float64P("ratio", "r", d.Ratio, "minimum parent/child count ratio for a merge")

	fs.String("input-format", d.InputFormat, "input format: "+strings.Join(seqio.Formats, " | "))
	fs.String("temp-dir", d.TempDir, "directory for engine exchange files (default system temp)")
	fs.Bool("keep-temp", d.KeepTemp, "keep engine exchange files after the run")

	fs.StringP("output", "o", d.Output, "output format: "+strings.Join(writers.Formats(), " | "))
	fs.String("out", d.Out, "write output to file instead of stdout")
	fs.Bool("sort", d.Sort, "sort clusters by count (desc), then center")
	fs.String("metrics-file", d.MetricsFile, "write Prometheus metrics to this textfile")

	fs.String("log-level", d.LogLevel, "log level: debug | info | warn | error")
	fs.String("log-format", d.LogFormat, "log format: auto | text | json")
	fs.BoolP("quiet", "q", d.Quiet, "suppress warnings and the summary line")

	fs.StringP("config", "c", "", "config file (default $XDG_CONFIG_HOME/starclust/config.yaml or ./starclust.yaml)")
}

// Load layers defaults, config file, STARCLUST_* environment and the flags
// actually set in fs, then validates the result.
func Load(fs *pflag.FlagSet) (Options, error) {
	v := viper.New()
	d := Defaults()
	v.SetDefault("distance", d.Distance)
	v.SetDefault("ratio", d.Ratio)
	v.SetDefault("input-format", d.InputFormat)
	v.SetDefault("output", d.Output)
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)

	if err := v.BindPFlags(fs); err != nil {
		return Options{}, err
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := readConfig(v, strings.TrimSpace(v.GetString("config"))); err != nil {
		return Options{}, err
	}

	var opt Options
	if err := v.Unmarshal(&opt); err != nil {
		return Options{}, fmt.Errorf("config: %w", err)
	}
	opt.Output = strings.ToLower(strings.TrimSpace(opt.Output))
	opt.InputFormat = strings.ToLower(strings.TrimSpace(opt.InputFormat))
	opt.LogFormat = strings.ToLower(strings.TrimSpace(opt.LogFormat))
	if err := opt.Validate(); err != nil {
		return opt, err
	}
	return opt, nil
}

// readConfig reads path, or the first default location that exists. An
// explicit path that cannot be read is an error; missing defaults are not.
func readConfig(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		return nil
	}
	for _, p := range defaultConfigPaths() {
		if _, err := os.Stat(p); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config %s: %w", p, err)
		}
		return nil
	}
	return nil
}

func defaultConfigPaths() []string {
	var out []string
	if dir, err := os.UserConfigDir(); err == nil {
		out = append(out, filepath.Join(dir, "starclust", "config.yaml"))
	}
	return append(out, "starclust.yaml")
}
