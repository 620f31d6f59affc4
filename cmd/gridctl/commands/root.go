package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agiangrant/vgrid"
	"github.com/agiangrant/vgrid/config"
	"github.com/agiangrant/vgrid/internal/diag"
)

// Version is the gridctl release.
const Version = "0.1.0"

// globalOptions holds the flags shared by every subcommand.
type globalOptions struct {
	configPath string
	verbose    bool
	output     string
	width      float64
	height     float64
}

// NewRootCommand builds the gridctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "gridctl",
		Short: "gridctl - inspect data grid layouts",
		Long: `gridctl loads a grid definition and runs the layout engine against it
without a rendering layer, printing the resulting geometry and windows.

Example:
  gridctl layout -c orders.toml
  gridctl pin -c orders.toml id name -o json
  gridctl navigate -c orders.yaml 500 3`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return checkFormat(opts.output)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Grid definition file (.toml, .yaml, .yml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every sizing pass")
	flags.StringVarP(&opts.output, "output", "o", "text", "Output format (text, json, yaml)")
	flags.Float64Var(&opts.width, "width", 0, "Resize the viewport to this width before reporting")
	flags.Float64Var(&opts.height, "height", 0, "Resize the viewport to this height before reporting")

	root.AddCommand(
		newLayoutCommand(opts),
		newScrollCommand(opts),
		newPinCommand(opts),
		newNavigateCommand(opts),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gridctl version %s\n", Version)
		},
	}
}

// session is one loaded grid.
type session struct {
	grid   *vgrid.Grid
	logger *zap.Logger
}

// open loads the definition, builds the grid and applies the viewport
// overrides.
func (o *globalOptions) open() (*session, error) {
	if o.configPath == "" {
		return nil, fmt.Errorf("no grid definition given: use --config")
	}
	file, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	cfg, tree, err := file.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", o.configPath, err)
	}

	logger, err := diag.NewLogger(o.verbose)
	if err != nil {
		return nil, err
	}
	g, err := vgrid.New(cfg, tree, file.NewViewport(), file.NewDataSource(), vgrid.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to create grid: %w", err)
	}

	if o.width > 0 || o.height > 0 {
		vp := file.NewViewport()
		w, h := vp.Width, vp.Height
		if o.width > 0 {
			w = o.width
		}
		if o.height > 0 {
			h = o.height
		}
		g.Resize(w, h)
		g.Frame()
	}
	return &session{grid: g, logger: logger}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}
