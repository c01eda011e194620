package commands

import (
	"io"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/ramjotsingh/jsonext"
)

// NewApp creates the jsonext CLI app.
func NewApp() *cli.App {
	app := cli.NewApp()
	app.Name = "jsonext"
	app.Usage = "Inspect and apply jsonext string escaping"
	app.EnableBashCompletion = true

	app.Commands = []*cli.Command{
		NewEscapeCommand(),
		NewScanCommand(),
		NewReencodeCommand(),
		NewVersionCommand(),
	}
	return app
}

// encoderFlag is shared by every command that writes or inspects strings.
func encoderFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "encoder",
		Aliases: []string{"e"},
		Usage:   "text encoder, options are 'relaxed' or 'newtonsoft'",
		Value:   "newtonsoft",
		EnvVars: []string{"JSONEXT_ENCODER"},
	}
}

func encoderByName(name string) (jsonext.TextEncoder, error) {
	switch strings.ToLower(name) {
	case "relaxed":
		return jsonext.RelaxedEncoder, nil
	case "newtonsoft":
		return jsonext.NewtonsoftCompatibleEncoder, nil
	}
	return nil, errors.Newf("unknown encoder %q", name)
}

// readInput returns the named file, or standard input when path is empty
// or "-".
func readInput(c *cli.Context, path string) ([]byte, error) {
	if path == "" || path == "-" {
		r := c.App.Reader
		if r == nil {
			r = os.Stdin
		}
		return io.ReadAll(r)
	}
	data, err := os.ReadFile(path)
	return data, errors.Wrapf(err, "reading %s", path)
}
