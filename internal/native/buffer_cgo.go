//go:build cgo && starcode

package native

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

// Buffer is a NUL-terminated copy of a Go string in C memory.
type Buffer struct {
	p *C.char
}

func newBuffer(s string) *Buffer {
	track(+1)
	return &Buffer{p: C.CString(s)}
}

// String copies the buffer back into Go memory. Empty after free.
func (b *Buffer) String() string {
	if b == nil || b.p == nil {
		return ""
	}
	return C.GoString(b.p)
}

// free releases the C memory. Only the first call has an effect.
func (b *Buffer) free() {
	if b.p == nil {
		return
	}
	C.free(unsafe.Pointer(b.p))
	b.p = nil
	track(-1)
}
