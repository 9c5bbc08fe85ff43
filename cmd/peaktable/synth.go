package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/samcharles93/peaktable/internal/logger"
	"github.com/samcharles93/peaktable/pkg/peaktable"
	"github.com/urfave/cli/v3"
)

func synthCmd() *cli.Command {
	var (
		outPath  string
		count    int
		declared int64
		trailing int
		seed     int64
	)

	return &cli.Command{
		Name:  "synth",
		Usage: "Write a synthetic peak table",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path",
				Required:    true,
				Destination: &outPath,
			},
			&cli.IntFlag{
				Name:        "count",
				Aliases:     []string{"n"},
				Usage:       "number of records",
				Value:       100,
				Destination: &count,
			},
			&cli.Int64Flag{
				Name:        "declared",
				Usage:       "header count (-1 = record count)",
				Value:       -1,
				Destination: &declared,
			},
			&cli.IntFlag{
				Name:        "trailing",
				Usage:       "bytes of an incomplete chunk appended after the records",
				Destination: &trailing,
			},
			&cli.Int64Flag{
				Name:        "seed",
				Usage:       "random seed",
				Value:       1,
				Destination: &seed,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			if count < 0 {
				return cli.Exit("error: --count must not be negative", 1)
			}

			opts := peaktable.EncodeOptions{TrailingBytes: trailing}
			if declared >= 0 {
				d := uint64(declared)
				opts.DeclaredCount = &d
			}
			records := synthRecords(count, uint64(seed))
			if err := writeTable(outPath, records, opts); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			log.Info("synthetic peak table written",
				"path", outPath,
				"records", count,
				"size", formatBytes(uint64(peaktable.EncodedSize(count, opts))),
			)
			return nil
		},
	}
}

// synthRecords scatters peaks in a unit cube of reciprocal space with
// resolution falling off with distance from the origin.
func synthRecords(n int, seed uint64) []peaktable.Record {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]peaktable.Record, n)
	for i := range out {
		x := rng.Float64()*2 - 1
		y := rng.Float64()*2 - 1
		z := rng.Float64()*2 - 1
		out[i] = peaktable.Record{
			X: x,
			Y: y,
			Z: z,
			R: 0.5 + rng.Float64()*(x*x+y*y+z*z),
			I: rng.Int64N(10000),
		}
	}
	return out
}

func writeTable(path string, records []peaktable.Record, opts peaktable.EncodeOptions) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return peaktable.Encode(f, records, opts)
}
