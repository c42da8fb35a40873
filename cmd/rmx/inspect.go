package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	rerrors "github.com/vango-dev/rmx/internal/errors"
	"github.com/vango-dev/rmx/pkg/dom"
	"github.com/vango-dev/rmx/pkg/hydrate"
	"github.com/vango-dev/rmx/pkg/markers"
)

func (a *app) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "List the hydration and frame regions of an HTML file",
		Long: `Inspect an HTML file for rmx markers.

Every region is listed with its data entry, nested regions indented under
their owner. Unpaired markers and regions without data are reported and
make the command fail.

Examples:
  rmx render -o inbox.html && rmx inspect inbox.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			return a.runInspect(doc)
		},
	}
	return cmd
}

// readDocument parses an HTML file.
func readDocument(path string) (*dom.Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, rerrors.New(rerrors.CodeInputUnreadable).WithDetailf("%s: %v", path, err).Wrap(err)
	}
	doc, err := dom.ParseHTMLString(string(src))
	if err != nil {
		return nil, rerrors.New(rerrors.CodeInputUnreadable).WithDetailf("%s is not valid HTML", path).Wrap(err)
	}
	return doc, nil
}

// inspection collects the problems found while walking regions.
type inspection struct {
	data     *hydrate.Data
	regions  int
	unpaired []markers.Unpaired
	missing  []string
}

func (a *app) runInspect(doc *dom.Document) error {
	root := doc.DocumentElement()
	data, err := hydrate.ReadData(root)
	if err != nil {
		return err
	}

	in := &inspection{data: data}
	regions, unpaired := markers.Scan(root)
	in.unpaired = append(in.unpaired, unpaired...)
	for _, reg := range regions {
		a.inspectRegion(in, reg, 0)
	}

	if in.regions == 0 && len(in.unpaired) == 0 {
		a.info("no regions")
	}
	for _, u := range in.unpaired {
		a.errorMsg("%s", u.Error())
	}
	for _, id := range in.missing {
		a.errorMsg("region %q has no rmx-data entry", id)
	}

	switch {
	case len(in.unpaired) > 0:
		return rerrors.New(rerrors.CodeMarkerUnpaired).
			WithDetailf("%d unpaired markers", len(in.unpaired))
	case len(in.missing) > 0:
		return rerrors.New(rerrors.CodeDataMissing).
			WithDetailf("no data for %s", strings.Join(in.missing, ", "))
	}
	a.success("%d regions, all paired", in.regions)
	return nil
}

func (a *app) inspectRegion(in *inspection, reg markers.Region, depth int) {
	in.regions++
	indent := strings.Repeat("  ", depth)

	var desc string
	switch reg.Kind {
	case markers.Hydration:
		entry, ok := in.data.H[reg.ID]
		if !ok {
			in.missing = append(in.missing, reg.ID)
			desc = failMark.Sprint("no data")
		} else {
			desc = fmt.Sprintf("%s#%s %s", entry.ModuleURL, entry.ExportName, dimText.Sprint(propsSummary(entry)))
		}
	case markers.Frame:
		entry, ok := in.data.F[reg.ID]
		if !ok {
			in.missing = append(in.missing, reg.ID)
			desc = failMark.Sprint("no data")
		} else {
			desc = fmt.Sprintf("%s %s %s", entry.Name, entry.Src, dimText.Sprint(entry.Status))
		}
	}
	fmt.Fprintf(a.out, "%s%s %s  %s\n", indent, okMark.Sprint(kindLabel(reg.Kind)), reg.ID, desc)

	inner, unpaired := markers.ScanBetween(reg.Start, reg.End)
	in.unpaired = append(in.unpaired, unpaired...)
	for _, r := range inner {
		a.inspectRegion(in, r, depth+1)
	}
}

func kindLabel(k markers.Kind) string {
	if k == markers.Frame {
		return "frame"
	}
	return "hydration"
}

func propsSummary(entry hydrate.RegionData) string {
	const limit = 60
	s := string(entry.Props)
	if len(s) > limit {
		s = s[:limit-3] + "..."
	}
	return s
}
