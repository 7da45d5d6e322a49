// internal/refengine/engine.go
package refengine

import (
	"bufio"
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
)

// Status codes returned by Run.
const (
	StatusOK         = 0
	StatusNoTower    = 1 // Run called outside InitTower/CleanupTower
	StatusInput      = 2 // input file could not be opened or read
	StatusOutput     = 3 // output file could not be written
	StatusBadTau     = 4 // tau outside [0, MaxTau]
	StatusBadInput   = 5 // malformed input line
	StatusBadRatio   = 6 // ratio not finite and positive
	StatusBadThreads = 7
)

// MaxTau mirrors STARCODE_MAX_TAU.
const MaxTau = 8

// Options is the subset of starcode_helper arguments the engine honors.
type Options struct {
	Input        string
	Output       string
	Tau          int
	Ratio        float64
	Threads      int
	Verbose      bool
	ShowClusters bool
}

type useq struct {
	seq    string
	count  int
	parent int // index of the chosen parent, -1 for roots
}

// Run clusters the "<seq>\t<count>" lines of opt.Input and writes one
// "<center>\t<count>[\t<m1>,<m2>...]" line per cluster to opt.Output.
func Run(opt Options) int {
	t := acquireTower()
	if t == nil {
		return StatusNoTower
	}
	if opt.Tau < 0 || opt.Tau > MaxTau {
		return StatusBadTau
	}
	if math.IsNaN(opt.Ratio) || math.IsInf(opt.Ratio, 0) || opt.Ratio <= 0 {
		return StatusBadRatio
	}
	if opt.Threads < 1 {
		return StatusBadThreads
	}

	seqs, status := readInput(opt.Input)
	if status != StatusOK {
		return status
	}
	sort.Slice(seqs, func(i, j int) bool {
		if seqs[i].count != seqs[j].count {
			return seqs[i].count > seqs[j].count
		}
		return seqs[i].seq < seqs[j].seq
	})

	link(t, seqs, opt.Tau, opt.Ratio)
	clusters := gather(seqs)

	if opt.Verbose {
		fmt.Fprintf(os.Stderr, "refengine: %d sequences, %d clusters\n", len(seqs), len(clusters))
	}
	return writeOutput(opt.Output, clusters, opt.ShowClusters)
}

func readInput(path string) ([]useq, int) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, StatusInput
	}
	defer func() { _ = fh.Close() }()

	index := make(map[string]int)
	var out []useq
	sc := bufio.NewScanner(fh)
	sc.Buffer(make([]byte, 64*1024), 64*1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		tab := bytes.LastIndexByte(line, '\t')
		if tab <= 0 {
			return nil, StatusBadInput
		}
		n, err := strconv.Atoi(string(line[tab+1:]))
		if err != nil || n <= 0 {
			return nil, StatusBadInput
		}
		s := string(line[:tab])
		if i, ok := index[s]; ok {
			out[i].count += n
			continue
		}
		index[s] = len(out)
		out = append(out, useq{seq: s, count: n, parent: -1})
	}
	if sc.Err() != nil {
		return nil, StatusInput
	}
	return out, StatusOK
}

// link picks a parent for every sequence that has one: the highest-ranked
// earlier sequence within tau whose count is at least ratio times its own.
func link(t *tower, seqs []useq, tau int, ratio float64) {
	for j := 1; j < len(seqs); j++ {
		child := &seqs[j]
		for i := 0; i < j; i++ {
			p := seqs[i]
			if float64(p.count) < ratio*float64(child.count) {
				// ranked by count: every later candidate is smaller still
				break
			}
			if t.within(p.seq, child.seq, tau) {
				child.parent = i
				break
			}
		}
	}
}

type group struct {
	center  string
	count   int
	members []useq
}

func gather(seqs []useq) []group {
	root := func(i int) int {
		for seqs[i].parent >= 0 {
			i = seqs[i].parent
		}
		return i
	}
	byRoot := make(map[int]*group)
	var order []int
	for i := range seqs {
		r := root(i)
		g, ok := byRoot[r]
		if !ok {
			g = &group{center: seqs[r].seq}
			byRoot[r] = g
			order = append(order, r)
		}
		g.count += seqs[i].count
		if i != r {
			g.members = append(g.members, seqs[i])
		}
	}
	out := make([]group, 0, len(order))
	for _, r := range order {
		out = append(out, *byRoot[r])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].center < out[j].center
	})
	return out
}

func writeOutput(path string, clusters []group, showClusters bool) (status int) {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return StatusOutput
	}
	defer func() {
		if err := fh.Close(); err != nil && status == StatusOK {
			status = StatusOutput
		}
	}()
	bw := bufio.NewWriterSize(fh, 64<<10)
	for _, g := range clusters {
		bw.WriteString(g.center)
		bw.WriteByte('\t')
		bw.WriteString(strconv.Itoa(g.count))
		if showClusters && len(g.members) > 0 {
			bw.WriteByte('\t')
			for k, m := range g.members {
				if k > 0 {
					bw.WriteByte(',')
				}
				bw.WriteString(m.seq)
			}
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return StatusOutput
	}
	return StatusOK
}
