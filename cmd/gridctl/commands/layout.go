package commands

import "github.com/spf13/cobra"

func newLayoutCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "layout",
		Short: "Print the computed geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open()
			if err != nil {
				return err
			}
			defer s.close()
			return writeReport(cmd.OutOrStdout(), opts.output, newReport(s.grid, nil))
		},
	}
}
