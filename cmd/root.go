// Package cmd contains all CLI commands for the sheetshot binary.
package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetshot/cmd/completion"
	"github.com/klytics/sheetshot/cmd/doctor"
	cmdshell "github.com/klytics/sheetshot/cmd/shell"
	"github.com/klytics/sheetshot/cmd/version"
	cmdwatch "github.com/klytics/sheetshot/cmd/watch"
	"github.com/klytics/sheetshot/internal/config"
	"github.com/klytics/sheetshot/internal/export"
	"github.com/klytics/sheetshot/internal/rasterize"
	"github.com/klytics/sheetshot/internal/workbook"
)

var (
	verbose bool
	noColor bool
)

// NewRootCommand creates and returns the root cobra command with all
// subcommands registered. The root command itself performs the export.
func NewRootCommand() *cobra.Command {
	var (
		page        string
		rangeExpr   string
		optionsFile string
		rasterizer  string
	)

	rootCmd := &cobra.Command{
		Use:   "sheetshot <file.xlsx> <image.png>",
		Short: "Export Excel ranges as images",
		Long: `sheetshot — picture-perfect spreadsheet exports.

Renders a worksheet or cell range from an .xlsx workbook as a raster image
via an intermediate HTML table and wkhtmltoimage.`,
		Example: `  sheetshot book.xlsx out.png
  sheetshot book.xlsx out.png -p Sheet2
  sheetshot book.xlsx out.png -r B2:F20
  sheetshot book.xlsx out.png -r 'Sheet2!B2:F20'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				color.NoColor = true
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("could not load config: %w", err)
			}

			opts := rasterize.Options(cfg.DefaultOptions())
			if optionsFile != "" {
				fileOpts, err := rasterize.LoadOptionsFile(optionsFile)
				if err != nil {
					return err
				}
				opts = fileOpts.Merge(opts)
			}

			bin := cfg.Rasterizer.Binary
			if rasterizer != "" {
				bin = rasterizer
			}

			h, err := workbook.Open(args[0])
			if err != nil {
				return err
			}
			defer h.Close()

			req := export.Request{
				Dest:       args[1],
				Selector:   workbook.Selector{Sheet: page, Range: rangeExpr},
				Options:    opts,
				Rasterizer: &rasterize.Rasterizer{Binary: bin},
				TempDir:    cfg.TempDir,
			}
			if err := export.Export(cmd.Context(), h, req); err != nil {
				return err
			}

			if verbose {
				color.New(color.FgGreen).Fprintf(os.Stderr, "Wrote %s\n", args[1])
			}
			return nil
		},
	}

	rootCmd.Flags().StringVarP(&page, "page", "p", "", "Sheet to export by name (default: first sheet)")
	rootCmd.Flags().StringVarP(&rangeExpr, "range", "r", "", "Range to export in A1 notation (default: used cells)")
	rootCmd.Flags().StringVar(&optionsFile, "options-file", "", "YAML file of rasterizer options passed through verbatim")
	rootCmd.Flags().StringVar(&rasterizer, "rasterizer", "", "Rasterizer binary name or path (default: wkhtmltoimage)")

	// Global persistent flags
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")

	// Register subcommands
	rootCmd.AddCommand(doctor.NewCommand())
	rootCmd.AddCommand(cmdwatch.NewCommand())
	rootCmd.AddCommand(cmdshell.NewCommand())
	rootCmd.AddCommand(completion.NewCommand(rootCmd))
	rootCmd.AddCommand(version.NewCommand())

	return rootCmd
}

// Execute runs the root command and handles any returned errors.
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
