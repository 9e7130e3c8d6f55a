// cmd/pfmi3dsc/main.go
package main

import (
	"pfmi3dsc/internal/app"
	"pfmi3dsc/internal/appshell"
)

func main() {
	appshell.Main(app.RunContext)
}
