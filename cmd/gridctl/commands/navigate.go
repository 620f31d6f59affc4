package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newNavigateCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "navigate ROW [COLUMN]",
		Short: "Bring a cell into view",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid row %q: %w", args[0], err)
			}
			column := -1
			if len(args) == 2 {
				if column, err = strconv.Atoi(args[1]); err != nil {
					return fmt.Errorf("invalid column %q: %w", args[1], err)
				}
			}

			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.close()

			ok := s.grid.NavigateTo(row, column)
			target := strconv.Itoa(row)
			if column != -1 {
				target += "," + strconv.Itoa(column)
			}
			return writeReport(cmd.OutOrStdout(), opts.output,
				newReport(s.grid, []result{{Op: "navigate", Target: target, OK: ok}}))
		},
	}
}
