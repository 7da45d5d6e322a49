// internal/writers/registry.go
package writers

import (
	"fmt"
	"io"
	"sort"

	"starclust/internal/cluster"
)

const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
	FormatCBOR  = "cbor"
)

// Func renders one result to w.
type Func func(w io.Writer, res *cluster.Result) error

// Writer registry (format → handler). Formats register in init() blocks.
var registry = map[string]Func{}

// Register adds or replaces (last wins) the writer for format.
func Register(format string, fn Func) { registry[format] = fn }

// Write dispatches to the writer registered for format.
func Write(format string, w io.Writer, res *cluster.Result) error {
	fn, ok := registry[format]
	if !ok {
		return fmt.Errorf("unknown output format %q (no writer registered)", format)
	}
	return fn(w, res)
}

// Formats lists the registered format names, sorted.
func Formats() []string {
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Known reports whether a writer is registered for format.
func Known(format string) bool {
	_, ok := registry[format]
	return ok
}
