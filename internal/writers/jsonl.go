// internal/writers/jsonl.go
package writers

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"starclust/internal/cluster"
	"starclust/pkg/api"
)

// Reuse a 64 KiB buffered writer across JSONL writers.
var bwPool = sync.Pool{
	New: func() any {
		return bufio.NewWriterSize(io.Discard, 64<<10)
	},
}

// StartJSONLWriter spins up an encoder goroutine that writes each cluster it
// receives as one JSON line (v1). Close the channel, then read the error.
// A broken pipe on the final flush is not an error.
func StartJSONLWriter(out io.Writer, bufSize int) (chan<- api.ClusterV1, <-chan error) {
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan api.ClusterV1, bufSize)
	done := make(chan error, 1)

	go func() {
		bw := bwPool.Get().(*bufio.Writer)
		bw.Reset(out)
		defer func() {
			bw.Reset(io.Discard)
			bwPool.Put(bw)
		}()

		enc := json.NewEncoder(bw)
		var err error
		for c := range in {
			if err != nil {
				continue // drain so the sender never blocks
			}
			err = enc.Encode(c)
		}
		if err == nil {
			if ferr := bw.Flush(); ferr != nil && !IsBrokenPipe(ferr) {
				err = ferr
			}
		}
		done <- err
	}()

	return in, done
}

// WriteJSONL streams res one cluster per line.
func WriteJSONL(w io.Writer, res *cluster.Result) error {
	pipe, done := StartJSONLWriter(w, 64)
	for _, r := range res.Clusters {
		pipe <- ToAPICluster(r)
	}
	close(pipe)
	return <-done
}

func init() {
	Register(FormatJSONL, WriteJSONL)
}
