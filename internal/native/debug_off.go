//go:build !starclust_debug

package native

const debugAllocs = false
