package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samcharles93/peaktable/internal/logger"
	"github.com/samcharles93/peaktable/internal/plot"
	"github.com/samcharles93/peaktable/pkg/peaktable"
	"github.com/urfave/cli/v3"
)

func plotCmd() *cli.Command {
	var (
		filePath string
		dataDir  string
		outPath  string
		bins     int
	)

	return &cli.Command{
		Name:  "plot",
		Usage: "Render the four standard views of a peak table to PNG",
		Flags: append(inputFlags(&filePath, &dataDir),
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output PNG path (default $" + envPeakTablePlotDir + "/<name>.png or ./out/<name>.png)",
				Destination: &outPath,
			},
			&cli.IntFlag{
				Name:        "bins",
				Usage:       "histogram bin count",
				Value:       20,
				Destination: &bins,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			cfg := LoadConfig()
			applyInputConfig(c, cfg, &dataDir)

			path, err := resolveInputPath(filePath, dataDir, os.Stdin, os.Stderr)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			report, tbl, err := inspectFile(path, log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			printReport(os.Stdout, report)

			out, defaulted, err := resolvePlotOut(path, outPath, cfg.PlotDir)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if defaulted {
				log.Info("writing figure to default location", "path", out)
			}
			if err := renderPlot(out, tbl, plot.Options{Title: filepath.Base(path), Bins: bins}); err != nil {
				if errors.Is(err, peaktable.ErrNoData) {
					return cli.Exit("error: no data to plot", 1)
				}
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Info("figure written", "path", out, "points", tbl.Len())
			return nil
		},
	}
}

func renderPlot(path string, tbl *peaktable.Table, opts plot.Options) (err error) {
	cols := peaktable.ColumnsOf(tbl.Records)
	if cols.Len() == 0 {
		return peaktable.ErrNoData
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return plot.Render(f, cols, opts)
}
