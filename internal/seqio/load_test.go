package seqio

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"starclust/internal/cluster"
	"starclust/internal/seqset"
)

func load(t *testing.T, data, format string) seqset.Set {
	t.Helper()
	set := seqset.New()
	if err := Load(context.Background(), strings.NewReader(data), format, set); err != nil {
		t.Fatalf("Load(%s): %v", format, err)
	}
	return set
}

func TestLoadFormats(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		format string
		want   seqset.Set
	}{
		{"raw", "ACGT\nACGT\nTTTT\n", FormatRaw, seqset.Set{"ACGT": 2, "TTTT": 1}},
		{"tsv", "ACGT\t3\nTTTT\t1\nACGT\t2\n", FormatTSV, seqset.Set{"ACGT": 5, "TTTT": 1}},
		{"fasta", ">a\nAC\nGT\n>b\nACGT\n>c\nTT\n", FormatFASTA, seqset.Set{"ACGT": 2, "TT": 1}},
		{"fastq", "@r1\nACGT\n+\nIIII\n@r2\nACGT\n+\nIIII\n", FormatFASTQ, seqset.Set{"ACGT": 2}},
		{"auto raw", "\n\nACGT\nTTTT\n", FormatAuto, seqset.Set{"ACGT": 1, "TTTT": 1}},
		{"auto tsv", "ACGT\t4\n", FormatAuto, seqset.Set{"ACGT": 4}},
		{"auto fasta", ">x\nACGT\n", FormatAuto, seqset.Set{"ACGT": 1}},
		{"auto fastq", "@x\nAC\n+\nII\n", "", seqset.Set{"AC": 1}},
		{"fastq empty read", "@r1\nACGT\n+\nIIII\n@r2\n\n+\n\n@r3\nACGT\n+\nIIII\n", FormatFASTQ, seqset.Set{"ACGT": 2}},
		{"fastq blank between records", "@r1\nAC\n+\nII\n\n@r2\nAC\n+\nII\n\n", FormatFASTQ, seqset.Set{"AC": 2}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := load(t, c.data, c.format)
			if len(got) != len(c.want) {
				t.Fatalf("got %v want %v", got, c.want)
			}
			for k, w := range c.want {
				if got[k] != w {
					t.Fatalf("%s: got %d want %d (set %v)", k, got[k], w, got)
				}
			}
		})
	}
}

func TestLoadMalformed(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		format string
		want   error
	}{
		{"tsv bad count", "ACGT\tx\n", FormatTSV, cluster.ErrFormat},
		{"tsv zero count", "ACGT\t0\n", FormatTSV, cluster.ErrFormat},
		{"tsv extra fields", "ACGT\t1\tzz\n", FormatTSV, cluster.ErrFormat},
		{"fasta no header", "ACGT\n>a\nAC\n", FormatFASTA, cluster.ErrFormat},
		{"fastq bad separator", "@r\nAC\nII\nII\n", FormatFASTQ, cluster.ErrFormat},
		{"fastq quality length", "@r\nACGT\n+\nII\n", FormatFASTQ, cluster.ErrFormat},
		{"fastq truncated", "@r\nACGT\n", FormatFASTQ, cluster.ErrFormat},
		{"fastq empty read with quality", "@r\n\n+\nII\n", FormatFASTQ, cluster.ErrFormat},
		{"fastq missing quality", "@r\nAC\n+\n\n@s\nAC\n+\nII\n", FormatFASTQ, cluster.ErrFormat},
		{"unknown format", "ACGT\n", "bam", cluster.ErrInvalidArgument},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := Load(context.Background(), strings.NewReader(c.data), c.format, seqset.New())
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v want %v", err, c.want)
			}
		})
	}
}

func TestLoadFileCompressed(t *testing.T) {
	const data = ">a\nACGT\n>b\nACGT\n>c\nGGGG\n"
	dir := t.TempDir()

	var gz bytes.Buffer
	gw := gzip.NewWriter(&gz)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}

	var zs bytes.Buffer
	zw, err := zstd.NewWriter(&zs)
	if err != nil {
		t.Fatalf("zstd writer: %v", err)
	}
	if _, err := zw.Write([]byte(data)); err != nil {
		t.Fatalf("zstd write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}

	var l4 bytes.Buffer
	lw := lz4.NewWriter(&l4)
	if _, err := lw.Write([]byte(data)); err != nil {
		t.Fatalf("lz4 write: %v", err)
	}
	if err := lw.Close(); err != nil {
		t.Fatalf("lz4 close: %v", err)
	}

	files := map[string][]byte{
		"plain.fa":     []byte(data),
		"reads.fa.gz":  gz.Bytes(),
		"reads.fa.zst": zs.Bytes(),
		"reads.fa.lz4": l4.Bytes(),
	}
	for name, b := range files {
		t.Run(name, func(t *testing.T) {
			fn := filepath.Join(dir, name)
			if err := os.WriteFile(fn, b, 0o644); err != nil {
				t.Fatalf("write: %v", err)
			}
			set, err := LoadFiles(context.Background(), []string{fn}, FormatAuto)
			if err != nil {
				t.Fatalf("LoadFiles: %v", err)
			}
			if set["ACGT"] != 2 || set["GGGG"] != 1 || set.Len() != 2 {
				t.Fatalf("unexpected set %v", set)
			}
		})
	}
}

func TestLoadFileMissingIsIOError(t *testing.T) {
	_, err := LoadFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.fa")}, FormatAuto)
	if !errors.Is(err, cluster.ErrIO) {
		t.Fatalf("want io error, got %v", err)
	}
}

func TestLoadFileErrorCarriesPath(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "bad.tsv")
	if err := os.WriteFile(fn, []byte("ACGT\tnope\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	err := LoadFile(context.Background(), fn, FormatTSV, seqset.New())
	var ce *cluster.Error
	if !errors.As(err, &ce) || ce.Path != fn || ce.Line != 1 {
		t.Fatalf("unexpected error %v", err)
	}
}
