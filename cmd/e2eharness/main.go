package main

import (
	"fmt"
	"os"

	internalcli "github.com/themizzi/e2eharness/internal/cli"
)

var version = "0.1.0"

func main() {
	app := internalcli.NewApp(version, internalcli.DefaultDeps())

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
