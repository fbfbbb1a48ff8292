// Command blfdump inspects stats containers offline, for example files from
// the upload archive.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/halostats/uploadserver/internal/blf"
	"github.com/halostats/uploadserver/internal/core"
	"github.com/halostats/uploadserver/internal/stats"
	"github.com/urfave/cli"
)

// decodeOutput is the JSON document printed by the decode command.
type decodeOutput struct {
	MatchID   uuid.UUID      `json:"match_id"`
	Truncated bool           `json:"truncated"`
	Error     string         `json:"error,omitempty"`
	Players   []decodedEntry `json:"players"`
}

type decodedEntry struct {
	blf.PlayerRecord
	Guest bool `json:"guest"`
}

func main() {
	app := cli.NewApp()
	app.Name = "blfdump"
	app.Usage = "Inspect stats upload containers"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:      "decode",
			Aliases:   []string{"d"},
			Usage:     "Print the player records of a container as JSON",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "decompressed",
					Usage: "Input is an already inflated container (as stored in the archive)",
				},
				cli.Int64Flag{
					Name:   "max-size",
					Usage:  "Largest inflated container accepted, in bytes",
					Value:  blf.DefaultMaxDecompressedSize,
					EnvVar: "UPLOAD_MAX_DECOMPRESSED_SIZE",
				},
			},
			Action: func(c *cli.Context) error {
				path := c.Args().First()
				if path == "" {
					cli.ShowSubcommandHelp(c)
					return cli.NewExitError("file argument required", 1)
				}
				return decodeFile(path, c.Bool("decompressed"), c.Int64("max-size"), os.Stdout)
			},
		},
		{
			Name:      "inflate",
			Aliases:   []string{"i"},
			Usage:     "Strip the header and inflate an upload",
			ArgsUsage: "<file>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "out, o",
					Usage: "Output file (default: stdout)",
				},
				cli.Int64Flag{
					Name:   "max-size",
					Usage:  "Largest inflated container accepted, in bytes",
					Value:  blf.DefaultMaxDecompressedSize,
					EnvVar: "UPLOAD_MAX_DECOMPRESSED_SIZE",
				},
			},
			Action: func(c *cli.Context) error {
				path := c.Args().First()
				if path == "" {
					cli.ShowSubcommandHelp(c)
					return cli.NewExitError("file argument required", 1)
				}
				return inflateFile(path, c.String("out"), c.Int64("max-size"), os.Stdout)
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// decodeFile decodes the container at path and writes the records as JSON.
// A truncated container is reported in the output rather than as a failure.
func decodeFile(path string, decompressed bool, maxSize int64, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if !decompressed {
		if data, err = blf.DecompressLimit(data, maxSize); err != nil {
			return err
		}
	}

	out := decodeOutput{MatchID: core.MatchID(data), Players: []decodedEntry{}}
	records, err := blf.DecodeAll(data, blf.LayoutV1)
	if err != nil {
		if !errors.Is(err, blf.ErrTruncatedBuffer) {
			return err
		}
		out.Truncated = true
		out.Error = err.Error()
	}
	for _, rec := range records {
		out.Players = append(out.Players, decodedEntry{PlayerRecord: rec, Guest: stats.IsGuest(rec.PlayerName)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// inflateFile writes the inflated container at path to outPath, or to w
// when outPath is empty.
func inflateFile(path, outPath string, maxSize int64, w io.Writer) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	container, err := blf.DecompressLimit(data, maxSize)
	if err != nil {
		return err
	}
	if outPath == "" {
		_, err = w.Write(container)
		return err
	}
	return os.WriteFile(outPath, container, 0o644)
}
