// Package seqio loads sequencing input into a weighted sequence set.
// Identical reads collapse into one entry whose weight is the read count.
package seqio

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"starclust/internal/cluster"
	"starclust/internal/seqset"
)

// Input formats.
const (
	FormatAuto  = "auto"
	FormatRaw   = "raw"   // one sequence per line
	FormatTSV   = "tsv"   // sequence<TAB>count
	FormatFASTA = "fasta" // >id / sequence lines
	FormatFASTQ = "fastq" // @id / sequence / + / quality
)

// Formats lists the accepted --input-format values.
var Formats = []string{FormatAuto, FormatRaw, FormatTSV, FormatFASTA, FormatFASTQ}

const maxLine = 64 * 1024 * 1024 // allow very long single-line sequences (64 MiB)

// LoadFiles reads every path into one set.
func LoadFiles(ctx context.Context, paths []string, format string) (seqset.Set, error) {
	set := seqset.New()
	for _, p := range paths {
		if err := LoadFile(ctx, p, format, set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// LoadFile reads path into set.
func LoadFile(ctx context.Context, path, format string, set seqset.Set) error {
	rc, err := Open(path)
	if err != nil {
		return cluster.IOError("load", path, err)
	}
	defer func() { _ = rc.Close() }()

	if err := Load(ctx, rc, format, set); err != nil {
		var ce *cluster.Error
		if errors.As(err, &ce) && ce.Path == "" {
			ce.Path = path
		}
		return err
	}
	return nil
}

// Load reads r into set. With FormatAuto the format is sniffed from the first
// non-blank line.
func Load(ctx context.Context, r io.Reader, format string, set seqset.Set) error {
	br := bufio.NewReaderSize(r, 64<<10)
	if format == "" || format == FormatAuto {
		format = sniff(br)
	}
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	var err error
	switch format {
	case FormatRaw:
		err = scanLines(ctx, sc, func(ln int, line []byte) error {
			set.Add(bytes.TrimSpace(line), 1)
			return nil
		})
	case FormatTSV:
		err = scanLines(ctx, sc, func(ln int, line []byte) error {
			return addTSV(set, ln, line)
		})
	case FormatFASTA:
		err = loadFASTA(ctx, sc, set)
	case FormatFASTQ:
		err = loadFASTQ(ctx, sc, set)
	default:
		return cluster.InvalidArgument("load", "unknown input format %q", format)
	}
	if err != nil {
		return err
	}
	if err := sc.Err(); err != nil {
		return cluster.IOError("load", "", fmt.Errorf("scan: %w", err))
	}
	return nil
}

// sniff picks a format from the first non-blank line without consuming it.
func sniff(br *bufio.Reader) string {
	for n := 512; n <= 64<<10; n *= 4 {
		buf, _ := br.Peek(n)
		trimmed := bytes.TrimLeft(buf, " \t\r\n")
		if len(trimmed) == 0 {
			if len(buf) < n {
				return FormatRaw
			}
			continue
		}
		switch trimmed[0] {
		case '>':
			return FormatFASTA
		case '@':
			return FormatFASTQ
		}
		line := trimmed
		if i := bytes.IndexByte(line, '\n'); i >= 0 {
			line = line[:i]
		}
		if bytes.IndexByte(bytes.TrimSpace(line), '\t') >= 0 {
			return FormatTSV
		}
		return FormatRaw
	}
	return FormatRaw
}

func scanLines(ctx context.Context, sc *bufio.Scanner, fn func(ln int, line []byte) error) error {
	return scanLinesSkipping(ctx, sc, func() bool { return true }, fn)
}

// scanLinesSkipping drops blank lines only while skipBlank reports true.
func scanLinesSkipping(ctx context.Context, sc *bufio.Scanner, skipBlank func() bool, fn func(ln int, line []byte) error) error {
	ln := 0
	for sc.Scan() {
		ln++
		if ln&0xfff == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		line := sc.Bytes()
		if len(bytes.TrimSpace(line)) == 0 && skipBlank() {
			continue
		}
		if err := fn(ln, line); err != nil {
			return err
		}
	}
	return nil
}

func addTSV(set seqset.Set, ln int, line []byte) error {
	f := bytes.Fields(line)
	switch len(f) {
	case 1:
		set.Add(f[0], 1)
		return nil
	case 2:
		n, err := strconv.Atoi(string(f[1]))
		if err != nil || n <= 0 {
			return cluster.FormatError("load", ln, "bad count %q", f[1])
		}
		set.Add(f[0], n)
		return nil
	default:
		return cluster.FormatError("load", ln, "bad field count %d", len(f))
	}
}

func loadFASTA(ctx context.Context, sc *bufio.Scanner, set seqset.Set) error {
	var (
		inRecord bool
		seq      = make([]byte, 0, 1<<10)
	)
	flush := func() {
		if inRecord && len(seq) > 0 {
			set.Add(seq, 1)
		}
		seq = seq[:0]
	}
	err := scanLines(ctx, sc, func(n int, line []byte) error {
		if line[0] == '>' {
			flush()
			inRecord = true
			return nil
		}
		if !inRecord {
			return cluster.FormatError("load", n, "sequence data before first FASTA header")
		}
		seq = append(seq, bytes.TrimSpace(line)...)
		return nil
	})
	if err != nil {
		return err
	}
	flush()
	return nil
}

func loadFASTQ(ctx context.Context, sc *bufio.Scanner, set seqset.Set) error {
	// state cycles header -> sequence -> separator -> quality
	state := 0
	var seqLen, last int
	// sequence and quality lines may be empty
	skipBlank := func() bool { return state == 0 || state == 2 }
	err := scanLinesSkipping(ctx, sc, skipBlank, func(ln int, line []byte) error {
		last = ln
		switch state {
		case 0:
			if line[0] != '@' {
				return cluster.FormatError("load", ln, "expected FASTQ header, got %.16q", line)
			}
		case 1:
			s := bytes.TrimSpace(line)
			seqLen = len(s)
			if seqLen > 0 {
				set.Add(s, 1)
			}
		case 2:
			if line[0] != '+' {
				return cluster.FormatError("load", ln, "expected FASTQ separator, got %.16q", line)
			}
		case 3:
			if q := len(bytes.TrimSpace(line)); q != seqLen {
				return cluster.FormatError("load", ln, "quality length %d != sequence length %d", q, seqLen)
			}
		}
		state = (state + 1) % 4
		return nil
	})
	if err != nil {
		return err
	}
	if state != 0 {
		return cluster.FormatError("load", last, "truncated FASTQ record")
	}
	return nil
}
