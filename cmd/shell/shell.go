// Package shell provides the "sheetshot shell" command: an interactive
// session exporting repeatedly from one open workbook.
package shell

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetshot/internal/config"
	"github.com/klytics/sheetshot/internal/rasterize"
	"github.com/klytics/sheetshot/internal/shell"
	"github.com/klytics/sheetshot/internal/workbook"
)

// NewCommand creates the "shell" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell <file.xlsx>",
		Short: "Interactive export session over one open workbook",
		Long: `Open a workbook once and export regions from it interactively.

Example:
  sheetshot shell report.xlsx
  sheetshot> export q1.png -p Q1 -r A1:F30
  sheetshot> export q2.png -p Q2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("could not load config: %w", err)
			}

			h, err := workbook.Open(args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			s := shell.NewSession(h)
			s.Rasterizer = &rasterize.Rasterizer{Binary: cfg.Rasterizer.Binary}
			s.Options = rasterize.Options(cfg.DefaultOptions())
			s.TempDir = cfg.TempDir

			return s.Run(cmd.Context())
		},
	}
}
