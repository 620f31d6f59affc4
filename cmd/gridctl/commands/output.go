package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/agiangrant/vgrid"
	"github.com/agiangrant/vgrid/virtual"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q: want text, json or yaml", format)
	}
}

// report is what every subcommand prints.
type report struct {
	Grid        string             `json:"grid" yaml:"grid"`
	Results     []result           `json:"results,omitempty" yaml:"results,omitempty"`
	Geometry    vgrid.Geometry     `json:"geometry" yaml:"geometry"`
	Pinned      []string           `json:"pinned" yaml:"pinned"`
	Unpinned    []string           `json:"unpinned" yaml:"unpinned"`
	Rows        window             `json:"rows" yaml:"rows"`
	Columns     window             `json:"columns" yaml:"columns"`
	ScrollLeft  float64            `json:"scrollLeft" yaml:"scrollLeft"`
	Diagnostics []vgrid.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// result is the outcome of one requested operation.
type result struct {
	Op     string `json:"op" yaml:"op"`
	Target string `json:"target" yaml:"target"`
	OK     bool   `json:"ok" yaml:"ok"`
}

type window struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
	Total int `json:"total" yaml:"total"`
}

func windowOf(s virtual.State) window {
	return window{Start: s.StartIndex, End: s.End(), Total: s.TotalItemCount}
}

func newReport(g *vgrid.Grid, results []result) report {
	part := g.Partition()
	r := report{
		Grid:        g.Config().Name,
		Results:     results,
		Geometry:    g.Geometry(),
		Pinned:      []string{},
		Unpinned:    []string{},
		Rows:        windowOf(g.VerticalState()),
		Columns:     windowOf(g.HorizontalState()),
		Diagnostics: g.Diagnostics(),
	}
	for _, c := range part.Pinned {
		r.Pinned = append(r.Pinned, c.Field)
	}
	for _, c := range part.Unpinned {
		r.Unpinned = append(r.Unpinned, c.Field)
	}
	if f, ok := g.Row(r.Rows.Start); ok {
		r.ScrollLeft = f.ScrollLeft()
	}
	return r
}

func writeReport(w io.Writer, format string, r report) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return enc.Close()
	default:
		return writeText(w, r)
	}
}

func writeText(w io.Writer, r report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	g := r.Geometry

	fmt.Fprintf(tw, "grid\t%s\n", r.Grid)
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s %s\t%v\n", res.Op, res.Target, res.OK)
	}
	fmt.Fprintf(tw, "width\t%g (outer %g)\n", g.CalcWidth, g.OuterWidth)
	fmt.Fprintf(tw, "body height\t%g (auto %v)\n", g.BodyHeight, g.AutoHeight)
	fmt.Fprintf(tw, "header height\t%g\n", g.HeaderHeight)
	fmt.Fprintf(tw, "scrollbars\tvertical %v, horizontal %v\n", g.VerticalScroll, g.HorizontalScroll)
	fmt.Fprintf(tw, "passes\t%d (converged %v)\n", g.Passes, g.Converged)
	fmt.Fprintf(tw, "pinned\t%s (%g px)\n", strings.Join(r.Pinned, ", "), g.PinnedWidth)
	fmt.Fprintf(tw, "unpinned\t%s (%g px)\n", strings.Join(r.Unpinned, ", "), g.UnpinnedWidth)
	fmt.Fprintf(tw, "rows\t[%d, %d) of %d\n", r.Rows.Start, r.Rows.End, r.Rows.Total)
	fmt.Fprintf(tw, "columns\t[%d, %d) of %d, scrollLeft %g\n", r.Columns.Start, r.Columns.End, r.Columns.Total, r.ScrollLeft)

	fields := make([]string, 0, len(g.ColumnWidths))
	for f := range g.ColumnWidths {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	for _, f := range fields {
		fmt.Fprintf(tw, "  %s\t%g\n", f, g.ColumnWidths[f])
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintf(tw, "warning\t%s\n", d)
	}
	return tw.Flush()
}
