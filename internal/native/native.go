// internal/native/native.go
package native

import (
	"strings"
	"unicode/utf8"

	"starclust/internal/cluster"
)

// MaxTau is the largest edit distance the engine accepts (STARCODE_MAX_TAU).
const MaxTau = 8

// EngineVersion is the engine release whose call contract this package
// implements.
const EngineVersion = "starcode-v1.4"

// Fixed arguments of every engine call. They are part of this layer's
// contract with the engine and are not caller-tunable.
const (
	FixedVerbose      = 0 // no echo to stdout/stderr
	FixedThreads      = 1 // single worker thread
	FixedClusterAlg   = 0 // "message passing" flag held at 0
	FixedShowClusters = 1 // write member lists
	FixedShowIDs      = 0
	FixedOutputType   = 0
)

// Params is a typed clustering request.
type Params struct {
	InputPath   string
	OutputPath  string
	MaxDistance int
	Ratio       float64
}

// Call is the full native argument list, fixed flags included.
type Call struct {
	Input        *Buffer
	Output       *Buffer
	Tau          int
	Verbose      int
	Threads      int
	ClusterAlg   int
	Ratio        float64
	ShowClusters int
	ShowIDs      int
	OutputType   int
}

// Backend is an engine implementation. Init and Cleanup bracket one session
// (the engine's "tower"); Cluster runs one synchronous job and returns the
// engine's status (0 = success).
type Backend interface {
	Name() string
	Init()
	Cleanup()
	Cluster(c *Call) int
}

// Invoke converts p into a native call on b and maps a non-zero status to an
// engine error. The caller must hold an initialized session on b.
func Invoke(b Backend, p Params) error {
	if p.MaxDistance < 0 {
		return cluster.InvalidArgument("invoke", "max distance %d must be >= 0", p.MaxDistance)
	}
	if err := checkPath("input", p.InputPath); err != nil {
		return err
	}
	if err := checkPath("output", p.OutputPath); err != nil {
		return err
	}

	in := newBuffer(p.InputPath)
	defer in.free()
	out := newBuffer(p.OutputPath)
	defer out.free()

	code := b.Cluster(&Call{
		Input:        in,
		Output:       out,
		Tau:          p.MaxDistance,
		Verbose:      FixedVerbose,
		Threads:      FixedThreads,
		ClusterAlg:   FixedClusterAlg,
		Ratio:        p.Ratio,
		ShowClusters: FixedShowClusters,
		ShowIDs:      FixedShowIDs,
		OutputType:   FixedOutputType,
	})
	if code != 0 {
		return cluster.EngineError("invoke", code)
	}
	return nil
}

// checkPath rejects paths that cannot cross the boundary as NUL-terminated
// text.
func checkPath(which, p string) error {
	if p == "" {
		return cluster.InvalidArgument("invoke", "empty %s path", which)
	}
	if i := strings.IndexByte(p, 0); i >= 0 {
		return cluster.EncodingError("invoke", "%s path contains NUL at byte %d", which, i)
	}
	if !utf8.ValidString(p) {
		return cluster.EncodingError("invoke", "%s path is not valid UTF-8", which)
	}
	return nil
}
