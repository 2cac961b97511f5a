package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"
)

// CatCmd returns the cat command.
func CatCmd() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "Print the text content of a blob",
		ArgsUsage: "<object id>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "Path to Git repository",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: stdout)",
			},
		},
		Action: catAction,
	}
}

func catAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("missing object id")
	}
	objectID := c.Args().Get(0)

	ctx, err := NewCommandContext(c, c.String("repo"))
	if err != nil {
		return err
	}
	text, err := ctx.Cache.ReadFileContents(objectID)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	_, err = io.WriteString(w, text)
	return err
}
