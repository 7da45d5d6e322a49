// Package refengine is a pure-Go clustering engine that speaks the same file
// and status contract as libstarcode's starcode_helper. Binaries built without
// the native library use it, and so do the tests.
//
// Merge rule (message passing): within edit distance Tau, a sequence with
// count a becomes the parent of a sequence with count b when a >= Ratio*b.
// Sequences are ranked by count (desc) then bytes (asc); a parent always
// ranks before its child, so equal-count ties resolve toward the smaller
// sequence. Every sequence joins the cluster of its root ancestor.
//
// It keeps its working memory in a process-wide tower that must be set up
// with InitTower before Run and torn down with CleanupTower, like the native
// engine. It never imports the adapter, session or app packages.
package refengine
