// Package native is the invocation adapter for the clustering engine.
//
// All cgo lives here. Other packages see a Backend, a Params value and typed
// errors from internal/cluster; they never import "C".
//
// Builds:
//
//	go build                      reference backend (pure Go, internal/refengine)
//	go build -tags starcode       libstarcode via cgo (needs libstarcode.a on the linker path)
//	go build -tags starclust_debug   counts live native buffers (see Outstanding)
//
// Path buffers handed to the engine are owned by this package: they are
// allocated before the call, stay valid for its whole duration, and are freed
// exactly once after it returns. The engine never takes ownership.
//
// The engine keeps process-wide state and is not safe for concurrent use.
// Serialization is the job of internal/session.
package native
