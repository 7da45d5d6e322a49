// Package seqset is the weighted-sequence input model: distinct sequences
// mapped to their occurrence counts.
package seqset

import (
	"bytes"
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/zeebo/blake3"

	"starclust/internal/cluster"
)

// Set maps a sequence to a positive weight. Sequences are arbitrary bytes
// stored as string keys.
type Set map[string]int

// Entry is one (sequence, weight) pair.
type Entry struct {
	Seq    string
	Weight int
}

func New() Set { return make(Set) }

// Add accumulates n occurrences of seq. Repeated reads collapse into one key.
func (s Set) Add(seq []byte, n int) {
	s[string(seq)] += n
}

func (s Set) Len() int { return len(s) }

// Total is the sum of all weights.
func (s Set) Total() int {
	n := 0
	for _, w := range s {
		n += w
	}
	return n
}

// Sorted returns entries by weight (desc), then sequence (asc).
func (s Set) Sorted() []Entry {
	out := make([]Entry, 0, len(s))
	for k, w := range s {
		out = append(out, Entry{Seq: k, Weight: w})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Weight != out[j].Weight {
			return out[i].Weight > out[j].Weight
		}
		return out[i].Seq < out[j].Seq
	})
	return out
}

// Validate rejects entries the exchange format cannot carry: empty
// sequences, non-positive weights, and sequences containing a field or line
// separator or a NUL byte.
func (s Set) Validate() error {
	for k, w := range s {
		if k == "" {
			return cluster.InvalidArgument("validate", "empty sequence")
		}
		if w <= 0 {
			return cluster.InvalidArgument("validate", "sequence %.32q has non-positive weight %d", k, w)
		}
		if i := bytes.IndexAny([]byte(k), "\t\n\r\x00"); i >= 0 {
			return cluster.EncodingError("validate", "sequence %.32q contains separator byte %#x at %d", k, k[i], i)
		}
	}
	return nil
}

// Fingerprint is a BLAKE3-256 digest of the sorted encoded form. Two sets with
// the same entries have the same fingerprint regardless of insertion order.
func (s Set) Fingerprint() string {
	h := blake3.New()
	var num [20]byte
	for _, e := range s.Sorted() {
		_, _ = h.Write([]byte(e.Seq))
		_, _ = h.Write([]byte{'\t'})
		_, _ = h.Write(strconv.AppendInt(num[:0], int64(e.Weight), 10))
		_, _ = h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
