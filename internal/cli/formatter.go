package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"

	"github.com/idelchi/dusage/internal/dirstat"
)

const (
	// TabSpacing is the number of spaces between tabwriter columns.
	TabSpacing = 2
)

// Report is the printable outcome of walking all requested paths.
type Report struct {
	// Format names the unit system used for rendered sizes.
	Format string `json:"format" yaml:"format"`
	// Paths holds one entry per requested path, in request order.
	Paths []PathReport `json:"paths" yaml:"paths"`
	// Total merges the results of every path.
	Total dirstat.WalkResult `json:"total" yaml:"total"`
	// Elapsed is the wall time of the whole run.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
}

// PathReport is the outcome of walking one path.
type PathReport struct {
	// Path is the walked root.
	Path string `json:"path" yaml:"path"`
	// Result holds the error count and statistics.
	Result dirstat.WalkResult `json:"result" yaml:"result"`
	// Elapsed is the time spent on this path.
	Elapsed time.Duration `json:"elapsed" yaml:"elapsed"`
	// Error describes why the path could not be walked completely.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewReport builds a report from the summaries of a run.
func NewReport(cfg dirstat.Config, summaries []dirstat.Summary, elapsed time.Duration) Report {
	report := Report{
		Format:  cfg.Format.String(),
		Paths:   make([]PathReport, 0, len(summaries)),
		Total:   dirstat.Aggregate(summaries),
		Elapsed: elapsed,
	}

	for _, s := range summaries {
		path := PathReport{Path: s.Root, Result: s.Result, Elapsed: s.Elapsed}
		if s.Err != nil {
			path.Error = s.Err.Error()
		}

		report.Paths = append(report.Paths, path)
	}

	return report
}

// PrintJSON outputs the report in JSON format.
func PrintJSON(report Report, writer io.Writer) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON output: %w", err)
	}

	if _, err := fmt.Fprintln(writer, string(data)); err != nil {
		return err
	}

	return nil
}

// PrintYAML outputs the report in YAML format.
func PrintYAML(report Report, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("encoding YAML output: %w", err)
	}

	return encoder.Close()
}

// PrintList outputs one "<size> <path>" line per walked path, nothing else.
func PrintList(report Report, cfg dirstat.Config, writer io.Writer) error {
	for _, p := range report.Paths {
		if p.Error != "" && !p.Result.Stats.HasFiles() {
			continue
		}

		if _, err := fmt.Fprintf(writer, "%s %s\n", cfg.Paint(cfg.FormatBytes(p.Result.Stats.TotalBytes), termenv.ANSIGreen), p.Path); err != nil {
			return err
		}
	}

	return nil
}

// PrintTable outputs the report in human-readable table format.
//
//nolint:forbidigo // This function prints output to the console.
func PrintTable(report Report, cfg dirstat.Config, writer io.Writer) error {
	if err := PrintList(report, cfg, writer); err != nil {
		return err
	}

	if len(report.Paths) > 1 {
		fmt.Fprintf(writer, "%s %s\n",
			cfg.Paint(cfg.FormatBytes(report.Total.Stats.TotalBytes), termenv.ANSIGreen), "total")
	}

	heading := cfg.Color.Renderer(writer).NewStyle().Bold(true)
	stats := report.Total.Stats
	size := func(b uint64) string {
		return strings.TrimSpace(cfg.FormatBytes(b))
	}

	fmt.Fprintf(writer, "\n%s\n", heading.Render("Stats:"))

	w := tabwriter.NewWriter(writer, 0, 4, TabSpacing, ' ', 0)

	count := func(n uint64) string {
		return humanize.Comma(int64(n)) //nolint:gosec // Counts fit in int64
	}

	fmt.Fprintf(w, "Total files:\t%s\n", count(stats.FilesTraversed))
	fmt.Fprintf(w, "Total directories:\t%s\n", count(stats.DirsTraversed))

	if stats.HasFiles() {
		fmt.Fprintf(w, "Smallest file:\t%s\n", size(stats.SmallestFileBytes))
		fmt.Fprintf(w, "Largest file:\t%s\n", size(stats.LargestFileBytes))
	} else {
		fmt.Fprintf(w, "Smallest file:\t-\n")
		fmt.Fprintf(w, "Largest file:\t-\n")
	}

	fmt.Fprintf(w, "Total size:\t%s (%d bytes)\n", size(stats.TotalBytes), stats.TotalBytes)

	errorCount := fmt.Sprint(report.Total.NumErrors)
	if report.Total.NumErrors > 0 {
		errorCount = cfg.Paint(errorCount, termenv.ANSIRed)
	}

	fmt.Fprintf(w, "Errors:\t%s\n", errorCount)
	fmt.Fprintf(w, "\nElapsed:\t%v\n", report.Elapsed.Round(time.Millisecond))

	return w.Flush()
}
