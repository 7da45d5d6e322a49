package native

import "sync/atomic"

var outstanding atomic.Int64

// track records a buffer allocation (+1) or release (-1). It is a no-op
// unless built with -tags starclust_debug.
func track(delta int64) {
	if debugAllocs {
		outstanding.Add(delta)
	}
}

// Outstanding reports live native buffers. Always 0 in non-debug builds.
func Outstanding() int64 { return outstanding.Load() }

// DebugAllocs reports whether allocation tracking is compiled in.
func DebugAllocs() bool { return debugAllocs }
