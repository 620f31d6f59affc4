package commands

import "github.com/spf13/cobra"

func newScrollCommand(opts *globalOptions) *cobra.Command {
	var (
		row, column int
		left        float64
	)
	cmd := &cobra.Command{
		Use:   "scroll",
		Short: "Scroll the grid and print the materialized windows",
		Long: `Scroll makes --row the first materialized row and, when given, the
column at visible index --column the first materialized unpinned column.
--left scrolls horizontally by pixel offset instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.close()

			g := s.grid
			g.ScrollTo(row, column)
			if cmd.Flags().Changed("left") {
				g.ScrollLeft(left)
			}
			return writeReport(cmd.OutOrStdout(), opts.output, newReport(g, nil))
		},
	}
	cmd.Flags().IntVar(&row, "row", 0, "Row to scroll to")
	cmd.Flags().IntVar(&column, "column", -1, "Visible column index to scroll to, -1 for none")
	cmd.Flags().Float64Var(&left, "left", 0, "Horizontal pixel offset")
	return cmd
}
