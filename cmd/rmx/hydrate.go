package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/vango-dev/rmx/internal/demo"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/hydrate"
)

func (a *app) hydrateCmd() *cobra.Command {
	var showDiff bool

	cmd := &cobra.Command{
		Use:   "hydrate FILE",
		Short: "Hydrate an HTML file in memory and report the outcome",
		Long: `Hydrate an HTML file against the demo component registry.

Each region is reported as mounted, failed or stale, with its mismatch
count. Pending frames are resolved from the demo frames. With --diff the
markup before and after hydration is compared line by line.

Examples:
  rmx render -o inbox.html && rmx hydrate inbox.html --diff`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			return a.runHydrate(cmd.Context(), doc, showDiff)
		},
	}

	cmd.Flags().BoolVar(&showDiff, "diff", false, "Print a markup diff of the hydrated document")

	return cmd
}

func (a *app) runHydrate(ctx context.Context, doc *dom.Document, showDiff bool) error {
	before := doc.DocumentElement().OuterHTML()
	doc.ResetStats()

	client := hydrate.New(demo.Registry(),
		hydrate.WithLogger(a.logger),
		hydrate.WithConcurrency(a.cfg.Hydrate.Concurrency),
		hydrate.WithResolver(demo.ClientResolver(a.cfg.Server.FramePrefix)),
	)
	defer client.Close()

	report, err := client.Hydrate(ctx, doc)
	if err != nil {
		return err
	}

	for _, res := range report.Regions {
		line := fmt.Sprintf("%s %s", kindLabel(res.Kind), res.ID)
		if res.Mismatches > 0 {
			line += dimText.Sprintf(" (%d mismatches)", res.Mismatches)
		}
		switch res.Status {
		case hydrate.StatusMounted:
			a.success("%s", line)
		case hydrate.StatusStale:
			a.warn("%s stale: %v", line, res.Err)
		default:
			a.errorMsg("%s failed: %v", line, res.Err)
		}
	}
	stats := doc.Stats()
	a.info("%d mounted, %d failed, %d stale, %d mismatches, %d nodes created",
		report.Count(hydrate.StatusMounted),
		report.Count(hydrate.StatusFailed),
		report.Count(hydrate.StatusStale),
		report.Mismatches(),
		stats.Creates,
	)

	if showDiff {
		writeMarkupDiff(a.out, before, doc.DocumentElement().OuterHTML())
	}
	return report.Err()
}

// writeMarkupDiff prints the lines that differ between two serializations,
// one tag per line.
func writeMarkupDiff(w io.Writer, before, after string) {
	dmp := diffpatch.New()
	from, to, lines := dmp.DiffLinesToChars(splitTags(before), splitTags(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(from, to, false), lines)

	changed := false
	for _, d := range diffs {
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			line = strings.TrimSuffix(line, "\n")
			switch d.Type {
			case diffpatch.DiffInsert:
				fmt.Fprintln(w, addLine.Sprint("+ "+line))
				changed = true
			case diffpatch.DiffDelete:
				fmt.Fprintln(w, delLine.Sprint("- "+line))
				changed = true
			}
		}
	}
	if !changed {
		fmt.Fprintln(w, dimText.Sprint("  markup unchanged"))
	}
}

func splitTags(markup string) string {
	return strings.ReplaceAll(markup, "><", ">\n<") + "\n"
}
