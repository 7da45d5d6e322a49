// internal/app/app.go
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"starclust/internal/align"
	"starclust/internal/cli"
	"starclust/internal/cluster"
	"starclust/internal/exchange"
	"starclust/internal/logging"
	"starclust/internal/metrics"
	"starclust/internal/native"
	"starclust/internal/seqio"
	"starclust/internal/seqset"
	"starclust/internal/version"
	"starclust/internal/writers"
)

// env is what every command needs besides its options.
type env struct {
	stdout io.Writer // buffered; flushed by RunContext
	stderr io.Writer
}

func RunContext(parent context.Context, argv []string, stdout, stderr io.Writer) int {
	outw := bufio.NewWriter(stdout)
	e := &env{stdout: outw, stderr: stderr}

	root := newRootCmd(e)
	root.SetArgs(argv)
	root.SetOut(outw)
	root.SetErr(stderr)
	err := root.ExecuteContext(parent)

	code := ExitCode(err)
	if err != nil && code != ExitCancelled {
		_, _ = fmt.Fprintln(stderr, "error:", err)
		if code == ExitUsage {
			_, _ = fmt.Fprintln(stderr, "Run 'starclust --help' for usage.")
		}
	}
	if ferr := outw.Flush(); ferr != nil && !writers.IsBrokenPipe(ferr) {
		_, _ = fmt.Fprintln(stderr, ferr)
		if code == ExitOK {
			code = ExitIO
		}
	}
	if code == ExitOK && parent.Err() != nil {
		code = ExitCancelled
	}
	return code
}

func Run(argv []string, stdout, stderr io.Writer) int {
	return RunContext(context.Background(), argv, stdout, stderr)
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "starclust [flags] <inputs...>",
		Short: "Cluster sequencing reads with starcode",
		Long: `starclust collapses reads into clusters with the starcode engine.

Inputs are raw, TSV (sequence<TAB>count), FASTA or FASTQ files, optionally
gzip/zstd/lz4 compressed; '-' reads stdin and globs are expanded.
Settings are layered: defaults < config file < STARCLUST_* env < flags.`,
		Example: `  starclust -d 2 -r 5 reads.fastq.gz
  starclust -o json --sort 'runs/*.tsv' > clusters.json
  starclust decode engine_output.txt -o yaml`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          argsAtLeast(1, "at least one input file (or '-') is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCluster(e, cmd, args)
		},
	}
	root.SetVersionTemplate("starclust version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usage(err) })
	cli.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newDecodeCmd(e), newEncodeCmd(e), newVersionCmd(e))
	return root
}

func argsAtLeast(n int, msg string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) < n {
			return usage(fmt.Errorf("%s", msg))
		}
		return nil
	}
}

// setup loads options and builds the logger shared by every command.
func setup(e *env, cmd *cobra.Command) (cli.Options, *slog.Logger, error) {
	opts, err := cli.Load(cmd.Flags())
	if err != nil {
		return opts, nil, usage(err)
	}
	lvl, _ := logging.ParseLevel(opts.LogLevel)
	log, err := logging.New(e.stderr, lvl, opts.LogFormat)
	if err != nil {
		return opts, nil, usage(err)
	}
	return opts, log, nil
}

func loadInputs(ctx context.Context, opts cli.Options, args []string) ([]string, seqset.Set, error) {
	paths, err := cli.ExpandInputs(args)
	if err != nil {
		return nil, nil, usage(err)
	}
	set, err := seqio.LoadFiles(ctx, paths, opts.InputFormat)
	if err != nil {
		return nil, nil, err
	}
	return paths, set, nil
}

func runCluster(e *env, cmd *cobra.Command, args []string) error {
	opts, log, err := setup(e, cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	start := time.Now()

	paths, set, err := loadInputs(ctx, opts, args)
	if err != nil {
		return err
	}
	log.Debug("inputs loaded", "files", len(paths), "sequences", set.Len(), "reads", set.Total())

	var m *metrics.Metrics
	if opts.MetricsFile != "" {
		m = metrics.New()
	}
	a := align.New(
		align.WithTempDir(opts.TempDir),
		align.WithKeepFiles(opts.KeepTemp),
		align.WithLogger(log),
		align.WithMetrics(m),
	)
	res, err := a.Align(ctx, set, opts.Distance, opts.Ratio)
	if m != nil {
		if merr := m.WriteTextfile(opts.MetricsFile); merr != nil {
			warnf(e.stderr, opts.Quiet, "%v", merr)
		}
	}
	if err != nil {
		return err
	}

	n, err := emit(e, opts, res)
	if err != nil {
		return err
	}
	if !opts.Quiet {
		_, _ = fmt.Fprintf(e.stderr, "starclust: %s sequences (%s reads) -> %s clusters in %s [%s]%s\n",
			humanize.Comma(int64(set.Len())),
			humanize.Comma(int64(set.Total())),
			humanize.Comma(int64(res.Len())),
			time.Since(start).Round(time.Millisecond),
			a.Backend().Name(),
			sizeNote(opts, n))
	}
	return nil
}

// emit renders res to --out or stdout and reports the bytes written.
func emit(e *env, opts cli.Options, res *cluster.Result) (int64, error) {
	if opts.Sort {
		res.Sort()
	}
	if opts.Out == "" {
		cw := &countingWriter{w: e.stdout}
		err := writers.Write(opts.Output, cw, res)
		if writers.IsBrokenPipe(err) {
			return cw.n, nil
		}
		return cw.n, err
	}
	fh, err := os.Create(opts.Out)
	if err != nil {
		return 0, cluster.IOError("output", opts.Out, err)
	}
	cw := &countingWriter{w: fh}
	werr := writers.Write(opts.Output, cw, res)
	cerr := fh.Close()
	if werr != nil {
		return cw.n, cluster.IOError("output", opts.Out, werr)
	}
	if cerr != nil {
		return cw.n, cluster.IOError("output", opts.Out, cerr)
	}
	return cw.n, nil
}

func sizeNote(opts cli.Options, n int64) string {
	if opts.Out == "" {
		return ""
	}
	return fmt.Sprintf(", wrote %s to %s", humanize.Bytes(uint64(n)), opts.Out)
}

func newDecodeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <engine-output>",
		Short: "Parse an engine output file and render it in any output format",
		Args:  argsExactly(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, log, err := setup(e, cmd)
			if err != nil {
				return err
			}
			res, err := exchange.DecodeFile(args[0])
			if err != nil {
				return err
			}
			if err := res.Validate(); err != nil {
				return err
			}
			log.Debug("decoded", "path", args[0], "clusters", res.Len())
			_, err = emit(e, opts, res)
			return err
		},
	}
}

func newEncodeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "encode <inputs...>",
		Short: "Write the engine's exchange input (sequence<TAB>count) for the given inputs",
		Args:  argsAtLeast(1, "at least one input file (or '-') is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, _, err := setup(e, cmd)
			if err != nil {
				return err
			}
			_, set, err := loadInputs(cmd.Context(), opts, args)
			if err != nil {
				return err
			}
			if err := set.Validate(); err != nil {
				return err
			}
			if opts.Out != "" {
				fh, err := os.Create(opts.Out)
				if err != nil {
					return cluster.IOError("encode", opts.Out, err)
				}
				if err := exchange.Encode(fh, set); err != nil {
					_ = fh.Close()
					return err
				}
				if err := fh.Close(); err != nil {
					return cluster.IOError("encode", opts.Out, err)
				}
				return nil
			}
			err = exchange.Encode(e.stdout, set)
			if writers.IsBrokenPipe(err) {
				return nil
			}
			return err
		},
	}
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  argsExactly(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(e.stdout, "starclust version %s (engine %s, backend %s)\n",
				version.Version, native.EngineVersion, native.Default().Name())
			return err
		},
	}
}

func argsExactly(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return usage(fmt.Errorf("expected %d argument(s), got %d", n, len(args)))
		}
		return nil
	}
}
