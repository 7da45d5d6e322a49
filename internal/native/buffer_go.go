//go:build !(cgo && starcode)

package native

// Buffer is a NUL-terminated copy of a Go string. Without libstarcode the
// engine is Go code, so the memory stays on the Go heap; the ownership rules
// are the same as in the cgo build.
type Buffer struct {
	b []byte
}

func newBuffer(s string) *Buffer {
	track(+1)
	b := make([]byte, len(s)+1)
	copy(b, s)
	return &Buffer{b: b}
}

// String returns the text before the terminating NUL. Empty after free.
func (b *Buffer) String() string {
	if b == nil || len(b.b) == 0 {
		return ""
	}
	return string(b.b[:len(b.b)-1])
}

// free drops the buffer. Only the first call has an effect.
func (b *Buffer) free() {
	if b.b == nil {
		return
	}
	b.b = nil
	track(-1)
}
