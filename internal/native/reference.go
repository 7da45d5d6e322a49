package native

import "starclust/internal/refengine"

// Reference drives the pure-Go engine in internal/refengine. It honors the
// same file and status contract as libstarcode.
type Reference struct{}

func (Reference) Name() string { return "reference" }

func (Reference) Init() { refengine.InitTower() }

func (Reference) Cleanup() { refengine.CleanupTower() }

func (Reference) Cluster(c *Call) int {
	return refengine.Run(refengine.Options{
		Input:        c.Input.String(),
		Output:       c.Output.String(),
		Tau:          c.Tau,
		Ratio:        c.Ratio,
		Threads:      c.Threads,
		Verbose:      c.Verbose != 0,
		ShowClusters: c.ShowClusters != 0,
	})
}
