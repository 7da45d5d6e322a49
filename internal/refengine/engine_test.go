package refengine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, input string, tau int, ratio float64) (string, int) {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "in.tsv")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte(input), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	InitTower()
	defer CleanupTower()
	st := Run(Options{Input: in, Output: out, Tau: tau, Ratio: ratio, Threads: 1, ShowClusters: true})
	if st != StatusOK {
		return "", st
	}
	b, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b), st
}

func lines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func TestDistinctSequencesStayApart(t *testing.T) {
	out, st := run(t, "AAAAAAAAAA\t1\nCCCCCCCCCC\t1\nGGGGGGGGGG\t1\nTTTTTTTTTT\t1\n", 2, 2.0)
	if st != StatusOK {
		t.Fatalf("status %d", st)
	}
	if n := len(lines(out)); n != 4 {
		t.Fatalf("want 4 clusters, got %d:\n%s", n, out)
	}
}

func TestRatioControlsMerge(t *testing.T) {
	in := "AAAAAAAAAA\t1\nAAAAAAAAAC\t1\nGGGGGGGGGG\t1\nTTTTTTTTTT\t1\n"

	out, _ := run(t, in, 2, 1.0)
	ls := lines(out)
	if len(ls) != 3 {
		t.Fatalf("ratio 1.0: want 3 clusters, got %d:\n%s", len(ls), out)
	}
	if ls[0] != "AAAAAAAAAA\t2\tAAAAAAAAAC" {
		t.Fatalf("ratio 1.0: unexpected first line %q", ls[0])
	}

	out, _ = run(t, in, 2, 2.0)
	if n := len(lines(out)); n != 4 {
		t.Fatalf("ratio 2.0: want 4 clusters, got %d:\n%s", n, out)
	}
}

func TestHeavyParentAbsorbsChain(t *testing.T) {
	// AAAA -> AAAC (d=1) -> AACC (d=1 from AAAC, d=2 from AAAA)
	out, _ := run(t, "AAAA\t100\nAAAC\t10\nAACC\t1\n", 1, 5.0)
	ls := lines(out)
	if len(ls) != 1 || ls[0] != "AAAA\t111\tAAAC,AACC" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestEmptyInput(t *testing.T) {
	out, st := run(t, "", 2, 5.0)
	if st != StatusOK || out != "" {
		t.Fatalf("empty input: status %d out %q", st, out)
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		name  string
		input string
		tau   int
		ratio float64
		want  int
	}{
		{"tau too large", "A\t1\n", MaxTau + 1, 1, StatusBadTau},
		{"negative tau", "A\t1\n", -1, 1, StatusBadTau},
		{"zero ratio", "A\t1\n", 1, 0, StatusBadRatio},
		{"no tab", "AAAA\n", 1, 1, StatusBadInput},
		{"bad count", "AAAA\tx\n", 1, 1, StatusBadInput},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, st := run(t, c.input, c.tau, c.ratio); st != c.want {
				t.Fatalf("status %d want %d", st, c.want)
			}
		})
	}
}

func TestRunWithoutTower(t *testing.T) {
	CleanupTower()
	st := Run(Options{Input: "x", Output: "y", Tau: 1, Ratio: 1, Threads: 1})
	if st != StatusNoTower {
		t.Fatalf("status %d want %d", st, StatusNoTower)
	}
}

func TestMissingInput(t *testing.T) {
	InitTower()
	defer CleanupTower()
	dir := t.TempDir()
	st := Run(Options{Input: filepath.Join(dir, "nope"), Output: filepath.Join(dir, "out"), Tau: 1, Ratio: 1, Threads: 1})
	if st != StatusInput {
		t.Fatalf("status %d want %d", st, StatusInput)
	}
}

func TestWithin(t *testing.T) {
	tw := &tower{}
	cases := []struct {
		a, b string
		tau  int
		want bool
	}{
		{"ACGT", "ACGT", 0, true},
		{"ACGT", "ACGA", 0, false},
		{"ACGT", "ACGA", 1, true},
		{"ACGT", "AGT", 1, true},
		{"ACGT", "", 3, false},
		{"ACGT", "", 4, true},
		{"AAAAAAAAAA", "CCCCCCCCCC", 8, false},
		{"kitten", "sitting", 3, true},
		{"kitten", "sitting", 2, false},
	}
	for _, c := range cases {
		if got := tw.within(c.a, c.b, c.tau); got != c.want {
			t.Errorf("within(%q,%q,%d) = %v want %v", c.a, c.b, c.tau, got, c.want)
		}
	}
}
