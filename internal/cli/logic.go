package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/idelchi/dusage/internal/dirstat"
)

// ErrIncomplete reports that some paths or entries could not be read.
// The report has still been printed.
var ErrIncomplete = errors.New("incomplete results")

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)

	return ok && isatty.IsTerminal(f.Fd())
}

func logic(ctx context.Context, settings Settings, stdout, stderr io.Writer) error {
	enableProgress := settings.Progress &&
		settings.Output == "table" &&
		!settings.Debug &&
		isTerminal(stderr)

	out, _ := stdout.(*os.File)

	cfg := dirstat.Config{
		Threads: settings.Threads,
		Format:  settings.Format,
		Color:   settings.Color.Resolve(out),
	}

	// Simple progress callback that prints directly to stderr
	var progressHook func(files, bytes int64)

	if enableProgress {
		// Hide cursor for in-place updates; restore on exit.
		fmt.Fprint(stderr, "\033[?25l")
		defer fmt.Fprint(stderr, "\033[?25h")

		progressHook = func(files, bytes int64) {
			msg := fmt.Sprintf("Scanning… %s files, %s",
				humanize.Comma(files), humanize.IBytes(uint64(bytes))) //nolint:gosec // Bytes is always positive
			fmt.Fprintf(stderr, "\r\033[2K%s\r", msg)
		}
	}

	start := time.Now()

	summaries := dirstat.RunAll(ctx, cfg, settings.Paths, settings.Sort, dirstat.RunOptions{
		ProgressHook: progressHook,
		Parallel:     settings.Parallel,
		Debug:        settings.Debug,
		Log:          stderr,
	})

	// Clear the status line
	if enableProgress {
		fmt.Fprint(stderr, "\r\033[2K\r")
	}

	report := NewReport(cfg, summaries, time.Since(start))

	var err error

	switch settings.Output {
	case "json":
		err = PrintJSON(report, stdout)
	case "yaml":
		err = PrintYAML(report, stdout)
	case "list":
		err = PrintList(report, cfg, stdout)
	case "table":
		err = PrintTable(report, cfg, stdout)
	default:
		return fmt.Errorf("unknown output format: %s", settings.Output)
	}

	if err != nil {
		return err
	}

	failed := 0

	for _, s := range summaries {
		if s.Err != nil {
			failed++

			fmt.Fprintf(stderr, "%s: %v\n", s.Root, s.Err)
		}
	}

	if failed > 0 || report.Total.NumErrors > 0 {
		return fmt.Errorf("%w: %d of %d paths failed, %d entries could not be read",
			ErrIncomplete, failed, len(summaries), report.Total.NumErrors)
	}

	return nil
}
