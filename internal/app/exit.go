// internal/app/exit.go
package app

import (
	"context"
	"errors"

	"starclust/internal/cluster"
)

// Exit codes.
const (
	ExitOK         = 0
	ExitUnexpected = 1
	ExitUsage      = 2
	ExitIO         = 3
	ExitEngine     = 4
	ExitCancelled  = 130
)

// usageError marks bad flags, arguments or settings.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usage(err error) error {
	if err == nil {
		return nil
	}
	return &usageError{err: err}
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ue *usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ExitCancelled
	}
	switch cluster.KindOf(err) {
	case cluster.KindInvalidArgument, cluster.KindEncoding:
		return ExitUsage
	case cluster.KindIO, cluster.KindFormat:
		return ExitIO
	case cluster.KindEngine:
		return ExitEngine
	}
	return ExitUnexpected
}
