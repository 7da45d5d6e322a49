// Package align runs a weighted sequence set through the clustering engine
// and returns the decoded clusters.
//
// One Align call: validate, write the exchange input to a scoped temp file,
// open an engine session, invoke, close the session, decode the output
// file. Temp files and the session are released on every path. AlignIn does
// the same inside a session the caller already holds, so a batch pays for
// one tower init/teardown.
package align
