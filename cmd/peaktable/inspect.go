package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/samcharles93/peaktable/internal/logger"
	"github.com/samcharles93/peaktable/pkg/peaktable"
	"github.com/urfave/cli/v3"
)

// inspectReport is everything inspect learns about one peak table.
type inspectReport struct {
	Path          string             `json:"path"`
	Layout        peaktable.Layout   `json:"layout"`
	DeclaredCount uint64             `json:"declared_count"`
	ExpectedCount int64              `json:"expected_count"`
	NumPoints     int                `json:"num_points"`
	Truncated     bool               `json:"truncated"`
	Statistics    *peaktable.Summary `json:"statistics"`
	Warnings      []string           `json:"warnings"`
}

func inspectCmd() *cli.Command {
	var (
		filePath string
		dataDir  string
		format   string
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Report size analysis and statistics for a peak table",
		Flags: append(inputFlags(&filePath, &dataDir),
			&cli.StringFlag{
				Name:        "format",
				Usage:       "output format (text, json)",
				Value:       "text",
				Destination: &format,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			applyInputConfig(c, LoadConfig(), &dataDir)

			format = strings.ToLower(strings.TrimSpace(format))
			if format != "text" && format != "json" {
				return cli.Exit(fmt.Sprintf("error: unknown format %q (text, json)", format), 1)
			}

			path, err := resolveInputPath(filePath, dataDir, os.Stdin, os.Stderr)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			report, _, err := inspectFile(path, log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			if format == "json" {
				return writeReportJSON(os.Stdout, report)
			}
			printReport(os.Stdout, report)
			return nil
		},
	}
}

// inspectFile analyzes and parses the table at path. Disagreements between
// the header, the size and the parse are logged as warnings and returned in
// the report.
func inspectFile(path string, log logger.Logger) (inspectReport, *peaktable.Table, error) {
	f, err := peaktable.Open(path)
	if err != nil {
		return inspectReport{}, nil, fmt.Errorf("open peak table: %w", err)
	}
	defer func() { _ = f.Close() }()

	report, tbl, err := buildReport(path, f)
	if err != nil {
		return inspectReport{}, nil, err
	}
	for _, w := range report.Warnings {
		log.Warn(w, "file", filepath.Base(path))
	}
	log.Debug("peak table parsed", "file", path, "declared", report.DeclaredCount, "points", report.NumPoints)
	return report, tbl, nil
}

func buildReport(path string, f *peaktable.File) (inspectReport, *peaktable.Table, error) {
	layout, err := f.Layout()
	if err != nil {
		return inspectReport{}, nil, fmt.Errorf("size analysis: %w", err)
	}
	tbl, err := f.Table()
	if err != nil {
		return inspectReport{}, nil, fmt.Errorf("parse peak table: %w", err)
	}

	report := inspectReport{
		Path:          path,
		Layout:        layout,
		DeclaredCount: tbl.Declared,
		ExpectedCount: layout.Expected(tbl.Declared),
		NumPoints:     tbl.Len(),
		Truncated:     tbl.Truncated,
		Warnings:      append(tbl.Warnings(), layout.Check(tbl)...),
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}
	sum, err := peaktable.Summarize(tbl.Records)
	switch {
	case err == nil:
		report.Statistics = &sum
	case !errors.Is(err, peaktable.ErrNoData):
		return inspectReport{}, nil, err
	}
	return report, tbl, nil
}

func writeReportJSON(w io.Writer, report inspectReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func printReport(w io.Writer, r inspectReport) {
	_, _ = fmt.Fprintf(w, "Peak table: %s\n", r.Path)
	_, _ = fmt.Fprintf(w, "File size:      %d bytes (%s)\n", r.Layout.FileSize, formatBytes(uint64(r.Layout.FileSize)))
	_, _ = fmt.Fprintf(w, "Padding size:   %d bytes\n", r.Layout.PaddingSize)
	_, _ = fmt.Fprintf(w, "Data size:      %d bytes\n", r.Layout.DataSize)
	_, _ = fmt.Fprintf(w, "Chunks:         %d complete, %d trailing bytes\n", r.Layout.ChunkCount, r.Layout.TrailingBytes)
	_, _ = fmt.Fprintf(w, "Declared count: %d\n", r.DeclaredCount)
	_, _ = fmt.Fprintf(w, "Expected:       %d\n", r.ExpectedCount)
	_, _ = fmt.Fprintf(w, "Decoded:        %d\n", r.NumPoints)

	_, _ = fmt.Fprintln(w)
	if r.Statistics == nil {
		_, _ = fmt.Fprintln(w, "Statistics: no data")
		return
	}
	_, _ = fmt.Fprintf(w, "%-6s %14s %14s %14s %14s %14s\n", "field", "min", "max", "mean", "std", "median")
	for i, s := range r.Statistics.Fields() {
		_, _ = fmt.Fprintf(w, "%-6s %14.6g %14.6g %14.6g %14.6g %14.6g\n",
			peaktable.FieldNames[i], s.Min, s.Max, s.Mean, s.Std, s.Median)
	}
}

func formatBytes(b uint64) string {
	const (
		kb = 1024
		mb = 1024 * kb
		gb = 1024 * mb
	)
	switch {
	case b >= gb:
		return fmt.Sprintf("%.2f GiB", float64(b)/float64(gb))
	case b >= mb:
		return fmt.Sprintf("%.2f MiB", float64(b)/float64(mb))
	case b >= kb:
		return fmt.Sprintf("%.2f KiB", float64(b)/float64(kb))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
