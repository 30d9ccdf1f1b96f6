// Package watch provides the "sheetshot watch" command: re-export the image
// whenever the source workbook changes.
package watch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/klytics/sheetshot/internal/config"
	"github.com/klytics/sheetshot/internal/export"
	"github.com/klytics/sheetshot/internal/rasterize"
	w "github.com/klytics/sheetshot/internal/watch"
	"github.com/klytics/sheetshot/internal/workbook"
)

// NewCommand creates the "watch" command.
func NewCommand() *cobra.Command {
	var (
		page        string
		rangeExpr   string
		optionsFile string
		debounce    int
	)

	cmd := &cobra.Command{
		Use:   "watch <file.xlsx> <image.png>",
		Short: "Re-export an image whenever the workbook changes",
		Long: `Watch a workbook file and re-run the export on every save.

Example:
  sheetshot watch report.xlsx dashboard.png -p Summary -r A1:H20`,
		Args: cobra.ExactArgs(2),
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

			dest := args[1]
			runExport := func(path string) error {
				// Reopen per run: editors replace the file on save, so a
				// held handle would go stale.
				h, err := workbook.Open(path)
				if err != nil {
					return err
				}
				defer h.Close()

				req := export.Request{
					Dest:       dest,
					Selector:   workbook.Selector{Sheet: page, Range: rangeExpr},
					Options:    opts,
					Rasterizer: &rasterize.Rasterizer{Binary: cfg.Rasterizer.Binary},
					TempDir:    cfg.TempDir,
				}
				return export.Export(cmd.Context(), h, req)
			}

			// Export once up front so the image exists before the first change.
			if err := runExport(args[0]); err != nil {
				return err
			}
			fmt.Printf("Wrote %s\n", dest)

			watcher, err := w.New(args[0], runExport)
			if err != nil {
				return err
			}
			if debounce > 0 {
				watcher.Debounce = time.Duration(debounce) * time.Millisecond
			}

			fmt.Println("Press Ctrl+C to stop")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				<-sigCh
				fmt.Println("\nStopping watcher...")
				cancel()
			}()

			return watcher.Start(ctx)
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", "Sheet to export by name (default: first sheet)")
	cmd.Flags().StringVarP(&rangeExpr, "range", "r", "", "Range to export in A1 notation (default: used cells)")
	cmd.Flags().StringVar(&optionsFile, "options-file", "", "YAML file of rasterizer options")
	cmd.Flags().IntVar(&debounce, "debounce", 500, "Debounce interval in milliseconds")

	return cmd
}
