package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/sclorg/container-common-scripts/internal/cli"
)

func main() {
	dir := pflag.String("dir", "man", "output directory for the man pages")
	pflag.Parse()

	if err := cli.WriteManPages(*dir); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man pages: %v\n", err)
		os.Exit(1)
	}
}
