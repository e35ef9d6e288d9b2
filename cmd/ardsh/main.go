package main

import (
	"github.com/pimaster/ard.go/pkg/cli/sh"
	"github.com/pimaster/ard.go/pkg/dev"
)

//go-build: CGO_ENABLED=0

func init() {
	dev.SetupFlags()
}

func main() {
	sh.Main()
}
