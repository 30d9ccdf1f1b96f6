// Package doctor provides the "sheetshot doctor" command for checking system health.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/sheetshot/internal/config"
)

// Check represents a single health check result.
type Check struct {
	Name    string
	Status  string // "ok", "warning", "error"
	Message string
}

// NewCommand creates the "doctor" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check system health and dependencies",
		Long:  "Run diagnostic checks to verify sheetshot can find its rasterizer and configuration.",
		RunE: func(cmd *cobra.Command, args []string) error {
			checks := runChecks()

			green := color.New(color.FgGreen).SprintFunc()
			yellow := color.New(color.FgYellow).SprintFunc()
			red := color.New(color.FgRed).SprintFunc()

			fmt.Println("sheetshot doctor")
			fmt.Println("================")
			fmt.Println()

			okCount, warnCount, errCount := 0, 0, 0
			for _, c := range checks {
				var icon string
				switch c.Status {
				case "ok":
					icon = green("✓")
					okCount++
				case "warning":
					icon = yellow("!")
					warnCount++
				case "error":
					icon = red("✗")
					errCount++
				}
				fmt.Printf("  %s %s: %s\n", icon, c.Name, c.Message)
			}

			fmt.Println()
			fmt.Printf("  %d passed, %d warnings, %d errors\n", okCount, warnCount, errCount)

			if errCount > 0 {
				return fmt.Errorf("%d check(s) failed", errCount)
			}
			return nil
		},
	}
}

func runChecks() []Check {
	var checks []Check

	// Check Go runtime
	checks = append(checks, Check{
		Name:    "Go Runtime",
		Status:  "ok",
		Message: fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	})

	// Check rasterizer binary — the one hard external dependency
	cfg, err := config.Load()
	bin := "wkhtmltoimage"
	if err == nil && cfg.Rasterizer.Binary != "" {
		bin = cfg.Rasterizer.Binary
	}
	if path, err := exec.LookPath(bin); err == nil {
		checks = append(checks, Check{
			Name:    "Rasterizer",
			Status:  "ok",
			Message: path,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Rasterizer",
			Status:  "error",
			Message: fmt.Sprintf("%s not found on PATH — install wkhtmltoimage or set rasterizer.binary", bin),
		})
	}

	// Check config directory
	configDir := config.Dir()
	if info, err := os.Stat(configDir); err == nil && info.IsDir() {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "ok",
			Message: configDir,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config Directory",
			Status:  "warning",
			Message: fmt.Sprintf("%s not found — defaults apply", configDir),
		})
	}

	// Check config file
	configFile := filepath.Join(configDir, "config.yaml")
	if _, err := os.Stat(configFile); err == nil {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "ok",
			Message: configFile,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Config File",
			Status:  "warning",
			Message: "Not found — defaults apply",
		})
	}

	// Check temp directory is writable
	tmp := os.TempDir()
	if f, err := os.CreateTemp(tmp, "sheetshot-doctor-*"); err == nil {
		f.Close()
		os.Remove(f.Name())
		checks = append(checks, Check{
			Name:    "Temp Directory",
			Status:  "ok",
			Message: tmp,
		})
	} else {
		checks = append(checks, Check{
			Name:    "Temp Directory",
			Status:  "error",
			Message: fmt.Sprintf("%s is not writable: %v", tmp, err),
		})
	}

	return checks
}
