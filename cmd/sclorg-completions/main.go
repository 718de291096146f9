package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sclorg/container-common-scripts/internal/cli"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <tool> <%s>\n", os.Args[0], strings.Join(cli.Shells, "|"))
		os.Exit(1)
	}

	cmd, err := cli.FindTool(os.Args[1])
	if err == nil {
		err = cli.WriteCompletion(cmd, os.Args[2], os.Stdout)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
