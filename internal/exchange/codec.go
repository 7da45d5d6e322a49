// Package exchange reads and writes the engine's on-disk exchange files.
//
// Input (one record per line):   <sequence>\t<weight>\n
// Output (whitespace-delimited): <center> <count> [<m1>,<m2>,...]
package exchange

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"

	"starclust/internal/cluster"
	"starclust/internal/seqio"
	"starclust/internal/seqset"
)

// maxLine bounds a single output line. Member lists of large clusters can
// run to many megabytes.
const maxLine = 256 * 1024 * 1024

// Encode writes one "<seq>\t<weight>\n" line per entry. Entries are emitted in
// set.Sorted() order so files are reproducible; readers must not rely on it.
// Sequences are written verbatim: callers guarantee they contain no TAB or LF
// (see seqset.Set.Validate).
func Encode(w io.Writer, set seqset.Set) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	var num [20]byte
	for _, e := range set.Sorted() {
		if _, err := bw.WriteString(e.Seq); err != nil {
			return cluster.IOError("encode", "", err)
		}
		if err := bw.WriteByte('\t'); err != nil {
			return cluster.IOError("encode", "", err)
		}
		if _, err := bw.Write(strconv.AppendInt(num[:0], int64(e.Weight), 10)); err != nil {
			return cluster.IOError("encode", "", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return cluster.IOError("encode", "", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return cluster.IOError("encode", "", err)
	}
	return nil
}

// EncodeFile appends the encoded set to path, creating it if needed.
func EncodeFile(path string, set seqset.Set) (err error) {
	fh, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return cluster.IOError("encode", path, err)
	}
	defer func() {
		if cerr := fh.Close(); cerr != nil && err == nil {
			err = cluster.IOError("encode", path, cerr)
		}
	}()
	if err := Encode(fh, set); err != nil {
		return withPath(err, path)
	}
	return nil
}

// Decode parses engine output into a Result. Any malformed line fails the
// whole decode; nothing is skipped.
func Decode(r io.Reader) (*cluster.Result, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)

	res := &cluster.Result{Clusters: []cluster.Record{}}
	ln := 0
	for sc.Scan() {
		ln++
		rec, err := ParseLine(sc.Bytes())
		if err != nil {
			var ce *cluster.Error
			if errors.As(err, &ce) {
				ce.Line = ln
			}
			return nil, err
		}
		res.Clusters = append(res.Clusters, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, cluster.IOError("decode", "", err)
	}
	return res, nil
}

// DecodeEngineFile decodes a file the engine has just written. The bytes are
// read as is: a center may legitimately start with a compression magic
// number, so nothing is sniffed.
func DecodeEngineFile(path string) (*cluster.Result, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, cluster.IOError("decode", path, err)
	}
	defer func() { _ = fh.Close() }()

	res, err := Decode(fh)
	if err != nil {
		return nil, withPath(err, path)
	}
	return res, nil
}

// DecodeFile opens path (gzip/zstd/lz4 are unwrapped transparently) and
// decodes it. Used for archived outputs; see DecodeEngineFile for a run's
// own output.
func DecodeFile(path string) (*cluster.Result, error) {
	rc, err := seqio.Open(path)
	if err != nil {
		return nil, cluster.IOError("decode", path, err)
	}
	defer func() { _ = rc.Close() }()

	res, err := Decode(rc)
	if err != nil {
		return nil, withPath(err, path)
	}
	return res, nil
}

// ParseLine tokenizes one output line: center, count, and an optional
// comma-joined member list. The returned record owns its bytes.
//
// The center is checked for presence once; the count is checked separately
// for presence and for being a non-negative integer.
func ParseLine(line []byte) (cluster.Record, error) {
	f := bytes.Fields(line)
	if len(f) == 0 || len(f[0]) == 0 {
		return cluster.Record{}, cluster.FormatError("decode", 0, "empty cluster center")
	}
	if len(f) < 2 {
		return cluster.Record{}, cluster.FormatError("decode", 0, "missing count for center %.32q", f[0])
	}
	n, err := strconv.ParseUint(string(f[1]), 10, strconv.IntSize-1)
	if err != nil {
		return cluster.Record{}, cluster.FormatError("decode", 0, "bad count %q: %v", f[1], err)
	}

	rec := cluster.Record{
		Center:  append([]byte(nil), f[0]...),
		Count:   int(n),
		Members: [][]byte{},
	}
	if len(f) > 2 {
		rec.Members = SplitMembers(f[2])
	}
	return rec, nil
}

// SplitMembers splits a comma-joined member token. Pieces are not trimmed;
// empty pieces are kept as empty sequences.
func SplitMembers(tok []byte) [][]byte {
	own := append([]byte(nil), tok...)
	return bytes.Split(own, []byte{','})
}

func withPath(err error, path string) error {
	var ce *cluster.Error
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = path
	}
	return err
}
