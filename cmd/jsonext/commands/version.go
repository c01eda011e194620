package commands

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ramjotsingh/jsonext"
)

// NewVersionCommand returns a cli.Command for "jsonext version".
func NewVersionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Shows the jsonext build version",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintf(c.App.Writer, "jsonext %s\n", jsonext.Version())
			return err
		},
	}
}
