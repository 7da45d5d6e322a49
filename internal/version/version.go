// internal/version/version.go
package version

// Version is overridden at link time:
//
//	go build -ldflags "-X starclust/internal/version.Version=v0.3.0" ./cmd/starclust
var Version = "dev"
