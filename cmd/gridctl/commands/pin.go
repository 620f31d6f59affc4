package commands

import "github.com/spf13/cobra"

func newPinCommand(opts *globalOptions) *cobra.Command {
	var (
		unpin bool
		at    int
	)
	cmd := &cobra.Command{
		Use:   "pin FIELD...",
		Short: "Pin columns in order and print the resulting areas",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.close()

			op, apply := "pin", s.grid.PinColumnAt
			if unpin {
				op, apply = "unpin", s.grid.UnpinColumnAt
			}
			results := make([]result, 0, len(args))
			for i, field := range args {
				index := -1
				if at >= 0 {
					index = at + i
				}
				results = append(results, result{Op: op, Target: field, OK: apply(field, index)})
			}
			return writeReport(cmd.OutOrStdout(), opts.output, newReport(s.grid, results))
		},
	}
	cmd.Flags().BoolVar(&unpin, "unpin", false, "Unpin instead of pin")
	cmd.Flags().IntVar(&at, "at", -1, "Place the columns from this index of their area on (default: append, or declaration position when unpinning)")
	return cmd
}
