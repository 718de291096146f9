package main

import (
	"os"

	"github.com/sclorg/container-common-scripts/internal/cli"
)

func main() {
	os.Exit(cli.Execute(cli.NewImageStreamsCmd()))
}
