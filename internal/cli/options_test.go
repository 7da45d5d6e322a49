// internal/cli/options_test.go
package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func newFS() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	return fs
}

func mustLoad(t *testing.T, args ...string) Options {
	t.Helper()
	fs := newFS()
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse err: %v", err)
	}
	o, err := Load(fs)
	if err != nil {
		t.Fatalf("load err: %v", err)
	}
	return o
}

func TestDefaults(t *testing.T) {
	o := mustLoad(t)
	if o.Distance != 2 || o.Ratio != 5.0 || o.Output != "text" || o.InputFormat != "auto" {
		t.Errorf("unexpected defaults %+v", o)
	}
}

func TestFlagsOverride(t *testing.T) {
	o := mustLoad(t, "-d", "3", "-r", "1.5", "-o", "JSON", "--sort", "--input-format", "fastq", "-q")
	if o.Distance != 3 || o.Ratio != 1.5 || o.Output != "json" || !o.Sort || o.InputFormat != "fastq" || !o.Quiet {
		t.Errorf("bad parse %+v", o)
	}
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("STARCLUST_RATIO", "2.5")
	t.Setenv("STARCLUST_INPUT_FORMAT", "tsv")
	o := mustLoad(t)
	if o.Ratio != 2.5 || o.InputFormat != "tsv" {
		t.Errorf("env not applied: %+v", o)
	}
}

func TestFlagBeatsEnv(t *testing.T) {
	t.Setenv("STARCLUST_DISTANCE", "4")
	o := mustLoad(t, "--distance", "1")
	if o.Distance != 1 {
		t.Errorf("flag should win over env, got %d", o.Distance)
	}
}

func TestConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starclust.yaml")
	cfg := "distance: 1\nratio: 3\noutput: yaml\nkeep-temp: true\n"
	if err := os.WriteFile(path, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	o := mustLoad(t, "--config", path, "--ratio", "4")
	if o.Distance != 1 || o.Output != "yaml" || !o.KeepTemp {
		t.Errorf("config not applied: %+v", o)
	}
	if o.Ratio != 4 {
		t.Errorf("flag should win over config, got %v", o.Ratio)
	}
}

func TestConfigFromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yaml")
	if err := os.WriteFile(path, []byte("distance: 5\nsort: true\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("STARCLUST_CONFIG", path)
	o := mustLoad(t)
	if o.Distance != 5 || !o.Sort {
		t.Errorf("config named by env not applied: %+v", o)
	}
}

func TestMissingExplicitConfig(t *testing.T) {
	fs := newFS()
	_ = fs.Parse([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	if _, err := Load(fs); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestValidation(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"-d", "-1"}, "--distance"},
		{[]string{"-d", "9"}, "--distance"},
		{[]string{"-r", "0"}, "--ratio"},
		{[]string{"-o", "fasta"}, "--output"},
		{[]string{"--input-format", "bam"}, "--input-format"},
		{[]string{"--log-level", "chatty"}, "--log-level"},
		{[]string{"--log-format", "xml"}, "--log-format"},
	}
	for _, c := range cases {
		fs := newFS()
		if err := fs.Parse(c.args); err != nil {
			t.Fatalf("parse %v: %v", c.args, err)
		}
		_, err := Load(fs)
		if err == nil || !strings.Contains(err.Error(), c.want) {
			t.Errorf("%v: want error mentioning %s, got %v", c.args, c.want, err)
		}
	}
}

func TestExpandInputs(t *testing.T) {
	dir := t.TempDir()
	_ = os.WriteFile(filepath.Join(dir, "a.fa"), []byte(">a\nA\n"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, "b.fa"), []byte(">b\nA\n"), 0o644)
	got, err := ExpandInputs([]string{filepath.Join(dir, "*.fa"), "-", "plain.txt"})
	if err != nil || len(got) != 4 || got[2] != "-" || got[3] != "plain.txt" {
		t.Fatalf("expand: err=%v got=%v", err, got)
	}
	if _, err := ExpandInputs([]string{filepath.Join(dir, "*.fq")}); err == nil {
		t.Fatal("expected error for glob with no match")
	}
}
