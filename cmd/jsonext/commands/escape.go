package commands

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/ramjotsingh/jsonext"
	"github.com/ramjotsingh/jsonext/internal/codec"
)

// NewEscapeCommand returns a cli.Command for "jsonext escape".
func NewEscapeCommand() *cli.Command {
	return &cli.Command{
		Name:      "escape",
		Usage:     "Quote text as a JSON string",
		UsageText: "jsonext escape [options] [text...]",
		Description: `
The escape command writes each argument as a quoted JSON string, one per line,
escaped by the selected encoder. Without arguments it reads standard input as
a single text.

$ jsonext escape 'hello 😀'
"hello 😀"

$ jsonext escape -e relaxed 'hello 😀'

Use --verify to check that the output decodes back to the input with the
codec named by --oracle.`,
		Flags: []cli.Flag{
			encoderFlag(),
			&cli.BoolFlag{
				Name:  "verify",
				Usage: "decode every output with an independent JSON decoder and compare",
			},
			&cli.StringFlag{
				Name:  "oracle",
				Usage: "codec used by --verify, options are 'go-json' or 'json'",
				Value: codec.GoJSON{}.Name(),
			},
			&cli.BoolFlag{
				Name:  "index",
				Usage: "print the byte offset of the first escaped scalar before each string",
			},
		},
		Action: func(c *cli.Context) error {
			enc, err := encoderByName(c.String("encoder"))
			if err != nil {
				return err
			}
			var oracle codec.Codec
			if c.Bool("verify") {
				if oracle, err = codec.Lookup(c.String("oracle")); err != nil {
					return err
				}
			}
			texts := c.Args().Slice()
			if len(texts) == 0 {
				data, err := readInput(c, "")
				if err != nil {
					return err
				}
				texts = []string{strings.TrimSuffix(string(data), "\n")}
			}
			return runEscapeCommand(c, enc, texts, oracle, c.Bool("index"))
		},
	}
}

// validator is implemented by codecs that can check a document without
// decoding it.
type validator interface {
	Valid(data []byte) bool
}

// runEscapeCommand quotes every text. A non-nil oracle decodes each output
// back and compares it with the input.
func runEscapeCommand(c *cli.Context, enc jsonext.TextEncoder, texts []string, oracle codec.Codec, index bool) error {
	for _, text := range texts {
		quoted := jsonext.QuoteString(enc, text)
		if oracle != nil {
			if v, ok := oracle.(validator); ok && !v.Valid([]byte(quoted)) {
				return errors.Newf("escaped output %s is not valid JSON", quoted)
			}
			var back string
			if err := oracle.Unmarshal([]byte(quoted), &back); err != nil {
				return errors.Wrapf(err, "decoding %s", quoted)
			}
			if back != text {
				return errors.Newf("escaped output %s decodes to %q, want %q", quoted, back, text)
			}
		}
		var err error
		if index {
			_, err = fmt.Fprintf(c.App.Writer, "%d\t%s\n", jsonext.FindFirstEscapeIndex(enc, text), quoted)
		} else {
			_, err = fmt.Fprintln(c.App.Writer, quoted)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
