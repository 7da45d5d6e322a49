// internal/cluster/errors.go
package cluster

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a failure surfaced by the clustering layer.
type Kind int

const (
	KindInvalidArgument Kind = iota + 1
	KindIO
	KindEncoding
	KindEngine
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid argument"
	case KindIO:
		return "io error"
	case KindEncoding:
		return "encoding error"
	case KindEngine:
		return "engine error"
	case KindFormat:
		return "format error"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels for errors.Is matching by kind:
//
//	if errors.Is(err, cluster.ErrFormat) { ... }
var (
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrIO              = &Error{Kind: KindIO}
	ErrEncoding        = &Error{Kind: KindEncoding}
	ErrEngine          = &Error{Kind: KindEngine}
	ErrFormat          = &Error{Kind: KindFormat}
)

// Error is the single typed failure returned by every package in the
// clustering path. Only the fields relevant to Kind are set.
type Error struct {
	Kind Kind
	Op   string // operation, e.g. "decode", "invoke"
	Path string // file involved, if any
	Line int    // 1-based line for format errors
	Code int    // native status for engine errors
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d", e.Line)
		}
	} else if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Kind == KindEngine {
		fmt.Fprintf(&b, " (status %d)", e.Code)
	}
	if e.Msg != "" {
		b.WriteString(": ")
		b.WriteString(e.Msg)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so the package sentinels work with
// errors.Is regardless of the other fields.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func InvalidArgument(op, format string, a ...any) error {
	return &Error{Kind: KindInvalidArgument, Op: op, Msg: fmt.Sprintf(format, a...)}
}

func IOError(op, path string, err error) error {
	return &Error{Kind: KindIO, Op: op, Path: path, Err: err}
}

func EncodingError(op, format string, a ...any) error {
	return &Error{Kind: KindEncoding, Op: op, Msg: fmt.Sprintf(format, a...)}
}

func EngineError(op string, code int) error {
	return &Error{Kind: KindEngine, Op: op, Code: code}
}

func FormatError(op string, line int, format string, a ...any) error {
	return &Error{Kind: KindFormat, Op: op, Line: line, Msg: fmt.Sprintf(format, a...)}
}

// KindOf returns the Kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// EngineCode extracts the native status from an engine error.
func EngineCode(err error) (int, bool) {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindEngine {
		return e.Code, true
	}
	return 0, false
}
