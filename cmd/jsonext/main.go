package main

import (
	"fmt"
	"os"

	"github.com/ramjotsingh/jsonext/cmd/jsonext/commands"
)

func main() {
	app := commands.NewApp()
	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}
}
