// internal/align/align.go
package align

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/rs/xid"

	"starclust/internal/cluster"
	"starclust/internal/exchange"
	"starclust/internal/logging"
	"starclust/internal/metrics"
	"starclust/internal/native"
	"starclust/internal/seqset"
	"starclust/internal/session"
	"starclust/internal/tempfile"
)

// DefaultRatio is starcode's default parent-to-child count ratio.
const DefaultRatio = 5.0

// DefaultDistance is the edit distance used by the CLI when none is given.
const DefaultDistance = 2

type Aligner struct {
	backend   native.Backend
	tempDir   string
	keepFiles bool
	log       *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(*Aligner)

func WithBackend(b native.Backend) Option { return func(a *Aligner) { a.backend = b } }

// WithTempDir sets where exchange files are created ("" = os.TempDir()).
func WithTempDir(dir string) Option { return func(a *Aligner) { a.tempDir = dir } }

func WithLogger(l *slog.Logger) Option { return func(a *Aligner) { a.log = l } }

func WithMetrics(m *metrics.Metrics) Option { return func(a *Aligner) { a.metrics = m } }

// WithKeepFiles leaves the exchange files on disk after the run.
func WithKeepFiles(keep bool) Option { return func(a *Aligner) { a.keepFiles = keep } }

func New(opts ...Option) *Aligner {
	a := &Aligner{backend: native.Default()}
	for _, o := range opts {
		o(a)
	}
	a.log = logging.OrDiscard(a.log)
	return a
}

// Backend returns the engine the Aligner drives.
func (a *Aligner) Backend() native.Backend { return a.backend }

// Align clusters set with the engine: sequences within maxDistance edits
// merge into a parent whose count is at least ratio times their own.
func (a *Aligner) Align(ctx context.Context, set seqset.Set, maxDistance int, ratio float64) (*cluster.Result, error) {
	return a.run(ctx, nil, set, maxDistance, ratio)
}

// AlignIn is Align inside a session held by the caller. sc must have been
// acquired on a.Backend() and stays open afterwards.
func (a *Aligner) AlignIn(ctx context.Context, sc *session.Context, set seqset.Set, maxDistance int, ratio float64) (*cluster.Result, error) {
	if sc == nil {
		return nil, cluster.InvalidArgument("align", "nil session")
	}
	return a.run(ctx, sc, set, maxDistance, ratio)
}

func (a *Aligner) run(ctx context.Context, sc *session.Context, set seqset.Set, maxDistance int, ratio float64) (res *cluster.Result, err error) {
	start := time.Now()
	runID := xid.New().String()
	log := a.log.With("run", runID)
	defer func() {
		clusters := 0
		if res != nil {
			clusters = res.Len()
		}
		a.metrics.ObserveAlign(outcome(err), time.Since(start), len(set), clusters)
		if err != nil {
			log.Debug("align failed", "err", err)
		}
	}()

	if err := checkArgs(set, maxDistance, ratio); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fp := set.Fingerprint()
	log.Debug("align start", "sequences", set.Len(), "fingerprint", fp, "distance", maxDistance, "ratio", ratio)

	in, err := a.tempFile(runID + "-in-")
	if err != nil {
		return nil, err
	}
	defer func() { err = joinRelease(err, in) }()
	out, err := a.tempFile(runID + "-out-")
	if err != nil {
		return nil, err
	}
	defer func() { err = joinRelease(err, out) }()
	if a.keepFiles {
		in.Keep()
		out.Keep()
		log.Info("keeping exchange files", "input", in.Path(), "output", out.Path())
	}

	if err := exchange.EncodeFile(in.Path(), set); err != nil {
		return nil, err
	}

	p := native.Params{InputPath: in.Path(), OutputPath: out.Path(), MaxDistance: maxDistance, Ratio: ratio}
	if sc == nil {
		if err := a.invokeOnce(ctx, p); err != nil {
			return nil, err
		}
	} else if err := sc.Invoke(p); err != nil {
		return nil, err
	}

	res, err = exchange.DecodeEngineFile(out.Path())
	if err != nil {
		return nil, err
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	res.Meta = cluster.Meta{
		RunID:       runID,
		Engine:      a.backend.Name(),
		Fingerprint: fp,
		MaxDistance: maxDistance,
		Ratio:       ratio,
		Sequences:   set.Len(),
	}
	log.Debug("align done", "clusters", res.Len(), "elapsed", time.Since(start))
	return res, nil
}

// invokeOnce brackets a single call with its own session.
func (a *Aligner) invokeOnce(ctx context.Context, p native.Params) error {
	sc, err := session.Acquire(ctx, a.backend, session.WithLogger(a.log), session.WithMetrics(a.metrics))
	if err != nil {
		return err
	}
	defer sc.Release()
	return sc.Invoke(p)
}

func (a *Aligner) tempFile(prefix string) (*tempfile.File, error) {
	f, err := tempfile.New(a.tempDir, "starclust-"+prefix)
	if err != nil {
		return nil, cluster.IOError("tempfile", a.tempDir, err)
	}
	return f, nil
}

func joinRelease(err error, f *tempfile.File) error {
	if rerr := f.Release(); rerr != nil {
		return errors.Join(err, cluster.IOError("tempfile.release", f.Path(), rerr))
	}
	return err
}

func checkArgs(set seqset.Set, maxDistance int, ratio float64) error {
	if maxDistance < 0 {
		return cluster.InvalidArgument("align", "max distance %d must be >= 0", maxDistance)
	}
	if maxDistance > native.MaxTau {
		return cluster.InvalidArgument("align", "max distance %d exceeds %d", maxDistance, native.MaxTau)
	}
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return cluster.InvalidArgument("align", "ratio %v must be finite and > 0", ratio)
	}
	return set.Validate()
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return metrics.OutcomeCancelled
	}
	switch cluster.KindOf(err) {
	case cluster.KindInvalidArgument:
		return metrics.OutcomeInvalidArgument
	case cluster.KindIO:
		return metrics.OutcomeIO
	case cluster.KindEncoding:
		return metrics.OutcomeEncoding
	case cluster.KindEngine:
		return metrics.OutcomeEngine
	case cluster.KindFormat:
		return metrics.OutcomeFormat
	}
	return metrics.OutcomeError
}
