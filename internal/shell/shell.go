// Package shell provides the interactive sheetshot REPL.
//
// A session opens the workbook once and reuses the same handle for every
// export, so repeated exports of a large workbook don't pay the open cost
// each time. The handle is closed only when the session ends.
package shell

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/klytics/sheetshot/internal/export"
	"github.com/klytics/sheetshot/internal/rasterize"
	"github.com/klytics/sheetshot/internal/workbook"
)

// Session manages an interactive export session over one open workbook.
type Session struct {
	Handle         *workbook.Handle
	Rasterizer     *rasterize.Rasterizer
	Options        rasterize.Options
	TempDir        string
	HistoryFile    string
	CommandHistory []string
	StartTime      time.Time
}

// NewSession creates a session over an already-open workbook handle. The
// session does not take ownership: the caller closes the handle.
func NewSession(h *workbook.Handle) *Session {
	home, _ := os.UserHomeDir()
	histFile := filepath.Join(home, ".sheetshot", "shell_history")
	os.MkdirAll(filepath.Dir(histFile), 0755)

	return &Session{
		Handle:      h,
		HistoryFile: histFile,
		StartTime:   time.Now(),
	}
}

// Run starts the REPL loop. Blocks until 'exit' or Ctrl+D.
func (s *Session) Run(ctx context.Context) error {
	completer := readline.NewPrefixCompleter(
		readline.PcItem("export"),
		readline.PcItem("sheets"),
		readline.PcItem("history"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
		readline.PcItem("quit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "sheetshot> ",
		HistoryFile:     s.HistoryFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	fmt.Printf("sheetshot — interactive export shell (%s)\n", filepath.Base(s.Handle.Path))
	fmt.Println("Type 'help' for commands, 'exit' to quit.")
	fmt.Println()

	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF or interrupt
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		s.CommandHistory = append(s.CommandHistory, line)

		switch {
		case line == "exit" || line == "quit":
			elapsed := time.Since(s.StartTime)
			fmt.Printf("\nSession ended. %d commands run in %s.\n",
				len(s.CommandHistory)-1, elapsed.Round(time.Second))
			return nil
		case line == "help":
			s.printHelp()
		case line == "history":
			for i, cmd := range s.CommandHistory {
				fmt.Printf("  %d  %s\n", i+1, cmd)
			}
		case line == "sheets":
			for _, name := range s.Handle.SheetNames() {
				fmt.Printf("  %s\n", name)
			}
		default:
			if err := s.Eval(ctx, line); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			}
		}
	}

	return nil
}

// Eval runs a single export command line against the session's handle.
func (s *Session) Eval(ctx context.Context, command string) error {
	args := strings.Fields(command)
	if len(args) == 0 {
		return nil
	}
	if args[0] != "export" {
		return fmt.Errorf("unknown command %q — type 'help'", args[0])
	}

	dest, sel, err := parseExportArgs(args[1:])
	if err != nil {
		return err
	}

	req := export.Request{
		Dest:       dest,
		Selector:   sel,
		Options:    s.Options,
		Rasterizer: s.Rasterizer,
		TempDir:    s.TempDir,
	}
	if err := export.Export(ctx, s.Handle, req); err != nil {
		return err
	}

	fmt.Printf("Wrote %s\n", dest)
	return nil
}

// parseExportArgs handles: export <image> [-p|--page SHEET] [-r|--range A1RANGE]
func parseExportArgs(args []string) (string, workbook.Selector, error) {
	var dest string
	var sel workbook.Selector

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-p", "--page":
			if i+1 >= len(args) {
				return "", sel, fmt.Errorf("%s requires a sheet name", args[i])
			}
			i++
			sel.Sheet = args[i]
		case "-r", "--range":
			if i+1 >= len(args) {
				return "", sel, fmt.Errorf("%s requires a range expression", args[i])
			}
			i++
			sel.Range = args[i]
		default:
			if dest != "" {
				return "", sel, fmt.Errorf("unexpected argument %q", args[i])
			}
			dest = args[i]
		}
	}

	if dest == "" {
		return "", sel, fmt.Errorf("usage: export <image.png> [-p sheet] [-r range]")
	}
	return dest, sel, nil
}

func (s *Session) printHelp() {
	fmt.Println(`Commands:
  export <image.png> [-p sheet] [-r range]   Export a region to an image
  sheets                                     List the workbook's sheets
  history                                    Show session command history
  help                                       Show this help
  exit, quit                                 End the session`)
}
