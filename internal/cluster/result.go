// Package cluster holds the result model and the error taxonomy shared by the
// codec, the native adapter and the orchestrator. It is domain-only: no I/O.
package cluster

import (
	"bytes"
	"fmt"
	"sort"
)

// Record is one output cluster.
//
// Members never contains the center. A cluster nothing merged into has an
// empty Members slice.
type Record struct {
	Center  []byte
	Count   int
	Members [][]byte
}

// Size is the number of distinct sequences in the cluster, center included.
func (r Record) Size() int { return len(r.Members) + 1 }

// Meta describes the run that produced a Result. The codec leaves it zero;
// the orchestrator fills it in.
type Meta struct {
	RunID       string
	Engine      string
	Fingerprint string
	MaxDistance int
	Ratio       float64
	Sequences   int
}

// Result is the ordered set of clusters, one per engine output line, in file
// order.
type Result struct {
	Clusters []Record
	Meta     Meta
}

func (r *Result) Len() int { return len(r.Clusters) }

// Centers, Counts and Members return parallel views over Clusters.
func (r *Result) Centers() [][]byte {
	out := make([][]byte, len(r.Clusters))
	for i, c := range r.Clusters {
		out[i] = c.Center
	}
	return out
}

func (r *Result) Counts() []int {
	out := make([]int, len(r.Clusters))
	for i, c := range r.Clusters {
		out[i] = c.Count
	}
	return out
}

func (r *Result) Members() [][][]byte {
	out := make([][][]byte, len(r.Clusters))
	for i, c := range r.Clusters {
		out[i] = c.Members
	}
	return out
}

// Total is the sum of all cluster counts.
func (r *Result) Total() int {
	n := 0
	for _, c := range r.Clusters {
		n += c.Count
	}
	return n
}

// CountsByCenter maps each center to its aggregate count.
func (r *Result) CountsByCenter() map[string]int {
	m := make(map[string]int, len(r.Clusters))
	for _, c := range r.Clusters {
		m[string(c.Center)] += c.Count
	}
	return m
}

// Validate checks the structural invariants of a decoded result.
func (r *Result) Validate() error {
	for i, c := range r.Clusters {
		if len(c.Center) == 0 {
			return FormatError("validate", i+1, "empty cluster center")
		}
		if c.Count < 0 {
			return FormatError("validate", i+1, "negative count %d", c.Count)
		}
		if c.Members == nil {
			return FormatError("validate", i+1, "nil member list")
		}
	}
	return nil
}

// Sort orders clusters by count (desc), then center (asc). Used for
// deterministic output; the engine's own line order is not part of the
// contract.
func (r *Result) Sort() {
	sort.SliceStable(r.Clusters, func(i, j int) bool {
		a, b := r.Clusters[i], r.Clusters[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return bytes.Compare(a.Center, b.Center) < 0
	})
}

func (r Record) String() string {
	return fmt.Sprintf("%s\t%d\t%d members", r.Center, r.Count, len(r.Members))
}
