package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitplay-go/internal/history"
)

// reelTail is how many of the newest commits the summary lists.
const reelTail = 10

// runReel prints a colored overview of a repository: its newest commits and
// the files resized most often over the whole history.
func runReel(c *cli.Context, repoPath string) error {
	started := time.Now()
	color.Green("Scanning %v repo", repoPath)

	ctx, err := NewCommandContext(c, repoPath)
	if err != nil {
		return fmt.Errorf("invalid Git repository - please run from or specify the full path to the root of the project: %w", err)
	}

	info, err := ctx.Cache.Session()
	if err != nil {
		return err
	}
	frames, err := ctx.Cache.Frames(info.Count-reelTail, reelTail)
	if err != nil {
		return err
	}
	ranked, err := ctx.Cache.FilesByModifications(c.Context, 0, info.Count)
	if err != nil {
		return err
	}
	branches, err := ctx.Cache.Branches()
	if err != nil {
		return err
	}

	showReel(info.Count, branches, frames, ranked)

	fmt.Fprintf(os.Stderr, "\nCompleted in %s\n", time.Since(started))
	return nil
}

func showReel(total int, branches []string, frames []history.CommitFrame, ranked history.ModificationResult) {
	fmt.Print("\t")
	color.Yellow("Found %v commits on %v branches, with %v frequently resized files:", total, len(branches), len(ranked.Files))
	fmt.Println("")

	colorTitle := color.New(color.FgGreen).Add(color.Underline)

	fmt.Print("\t")
	colorTitle.Println("Latest commits:")
	for i := len(frames) - 1; i >= 0; i-- {
		f := frames[i]
		fmt.Print("\t\t")
		var buff strings.Builder
		buff.WriteString("- ")
		buff.WriteString(time.Unix(f.Time, 0).UTC().Format("2006-01-02 15:04:05"))
		buff.WriteString(" ")
		buff.WriteString(f.ID[:min(len(f.ID), 8)])
		buff.WriteString(" ")
		buff.WriteString(strings.SplitN(f.Message, "\n", 2)[0])
		color.Yellow(buff.String())
	}

	fmt.Println("")
	fmt.Print("\t")
	colorTitle.Println("Hotspots:")

	colorSpot := color.New(color.FgRed)
	colorCount := color.New(color.FgYellow)

	for _, m := range ranked.Files {
		fmt.Print("\t\t")
		colorSpot.Print(m.Path)
		colorCount.Printf(" - %d\n", m.Count)
	}

	if len(ranked.Errors) > 0 {
		fmt.Println("")
		fmt.Print("\t")
		color.Red("%d commits could not be read", len(ranked.Errors))
	}
}
