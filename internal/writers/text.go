// internal/writers/text.go
package writers

import (
	"bufio"
	"io"
	"strconv"

	"starclust/internal/cluster"
)

// WriteText writes one "center\tcount[\tm1,m2,...]" line per cluster, the
// same layout the engine produces, so text output can be fed back to
// `starclust decode`.
func WriteText(w io.Writer, res *cluster.Result) error {
	bw := bufio.NewWriterSize(w, 64<<10)
	for _, r := range res.Clusters {
		bw.Write(r.Center)
		bw.WriteByte('\t')
		bw.WriteString(strconv.Itoa(r.Count))
		if len(r.Members) > 0 {
			bw.WriteByte('\t')
			for i, m := range r.Members {
				if i > 0 {
					bw.WriteByte(',')
				}
				bw.Write(m)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func init() {
	Register(FormatText, WriteText)
}
