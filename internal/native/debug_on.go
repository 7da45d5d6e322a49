//go:build starclust_debug

package native

const debugAllocs = true
