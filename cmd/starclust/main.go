// cmd/starclust/main.go
package main

import (
	"starclust/internal/app"
	"starclust/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
