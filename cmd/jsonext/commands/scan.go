package commands

import (
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
	"github.com/urfave/cli/v2"

	"github.com/ramjotsingh/jsonext"
)

// NewScanCommand returns a cli.Command for "jsonext scan".
func NewScanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Report the strings of a JSON document that need escaping",
		UsageText: "jsonext scan [options] [file]",
		Description: `
The scan command walks every key and string value of a JSON document and
prints, for each one the selected encoder would escape, its path and the byte
offset of the first scalar to escape.

$ echo '{"a":["ok","tab\there"]}' | jsonext scan
$.a[1]	3`,
		Flags: []cli.Flag{
			encoderFlag(),
		},
		Action: func(c *cli.Context) error {
			enc, err := encoderByName(c.String("encoder"))
			if err != nil {
				return err
			}
			data, err := readInput(c, c.Args().First())
			if err != nil {
				return err
			}
			return runScanCommand(c, enc, data)
		},
	}
}

func runScanCommand(c *cli.Context, enc jsonext.TextEncoder, data []byte) error {
	var total, flagged int
	visit := func(path, s string) error {
		total++
		i := jsonext.FindFirstEscapeIndex(enc, s)
		if i == jsonext.NoEscape {
			return nil
		}
		flagged++
		_, err := fmt.Fprintf(c.App.Writer, "%s\t%d\n", path, i)
		return err
	}

	value, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return errors.Wrap(err, "parsing document")
	}
	if err := walkStrings(value, typ, "$", visit); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "%d strings, %d need escaping\n", total, flagged)
	return err
}

// walkStrings calls visit for every object key and string value under
// value, depth first, in document order.
func walkStrings(value []byte, typ jsonparser.ValueType, path string, visit func(path, s string) error) error {
	switch typ {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return errors.Wrapf(err, "at %s", path)
		}
		return visit(path, s)

	case jsonparser.Object:
		return jsonparser.ObjectEach(value, func(key, v []byte, t jsonparser.ValueType, _ int) error {
			// keys arrive unescaped
			k := string(key)
			if err := visit(path+"{"+strconv.Quote(k)+"}", k); err != nil {
				return err
			}
			return walkStrings(v, t, path+"."+k, visit)
		})

	case jsonparser.Array:
		var (
			i    int
			werr error
		)
		_, err := jsonparser.ArrayEach(value, func(v []byte, t jsonparser.ValueType, _ int, err error) {
			if werr != nil {
				return
			}
			if err != nil {
				werr = err
				return
			}
			werr = walkStrings(v, t, path+"["+strconv.Itoa(i)+"]", visit)
			i++
		})
		if err != nil {
			return errors.Wrapf(err, "at %s", path)
		}
		return werr
	}
	return nil
}
