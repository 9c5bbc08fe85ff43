package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samcharles93/peaktable/internal/fetch"
	"github.com/samcharles93/peaktable/internal/logger"
	"github.com/samcharles93/peaktable/internal/version"
	"github.com/urfave/cli/v3"
)

const (
	envFetchPassword = "PEAKTABLE_FETCH_PASSWORD"
	envFetchToken    = "PEAKTABLE_FETCH_TOKEN"
)

type fetchOptions struct {
	outPath  string
	baseURL  string
	username string
	table    string
	format   string
	criteria []string
	compress string
	timeout  time.Duration
}

func fetchCmd() *cli.Command {
	var opts fetchOptions

	return &cli.Command{
		Name:  "fetch",
		Usage: "Run a remote search and store the JSON response verbatim",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (.sz and .lz4 select compression)",
				Required:    true,
				Destination: &opts.outPath,
			},
			&cli.StringFlag{
				Name:        "base-url",
				Usage:       "remote service base URL",
				Destination: &opts.baseURL,
			},
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "login user (password from $" + envFetchPassword + ")",
				Destination: &opts.username,
			},
			&cli.StringFlag{
				Name:        "table",
				Usage:       "remote table to search",
				Destination: &opts.table,
			},
			&cli.StringFlag{
				Name:        "format",
				Usage:       "response format requested from the service",
				Value:       fetch.DefaultFormat,
				Destination: &opts.format,
			},
			&cli.StringSliceFlag{
				Name:        "criterion",
				Aliases:     []string{"c"},
				Usage:       "search criterion key=value (repeatable, AND-combined in order)",
				Destination: &opts.criteria,
			},
			&cli.StringFlag{
				Name:        "compress",
				Usage:       "on-disk compression (auto, none, snappy, lz4)",
				Value:       "auto",
				Destination: &opts.compress,
			},
			&cli.DurationFlag{
				Name:        "timeout",
				Usage:       "request timeout",
				Value:       fetch.DefaultTimeout,
				Destination: &opts.timeout,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			log := logger.FromContext(ctx)
			applyFetchConfig(c, LoadConfig().Fetch, &opts)

			cfg, compression, err := opts.clientConfig()
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			client, err := fetch.NewClient(cfg, log)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			body, err := client.Search(ctx)
			if err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			if err := storeResponse(opts.outPath, body, compression); err != nil {
				return cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}

			attrs := []any{"path", opts.outPath, "size", formatBytes(uint64(len(body))), "compression", string(compression.Resolve(opts.outPath))}
			if n, ok := fetch.CountResults(body); ok {
				attrs = append(attrs, "results", n)
			}
			log.Info("search response stored", attrs...)
			return nil
		},
	}
}

// storeResponse persists body and reads it back to confirm the stored
// document matches.
func storeResponse(path string, body []byte, c fetch.Compression) error {
	if err := fetch.Persist(path, body, c); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	stored, err := fetch.Load(path, c)
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if !bytes.Equal(stored, body) {
		return fmt.Errorf("verify %s: stored document differs from response", path)
	}
	return nil
}

// clientConfig turns command options and the environment into a client
// configuration.
func (o fetchOptions) clientConfig() (fetch.Config, fetch.Compression, error) {
	compression, err := fetch.ParseCompression(o.compress)
	if err != nil {
		return fetch.Config{}, "", err
	}
	criteria := make([]fetch.Criterion, 0, len(o.criteria))
	for _, raw := range o.criteria {
		cr, err := fetch.ParseCriterion(raw)
		if err != nil {
			return fetch.Config{}, "", err
		}
		criteria = append(criteria, cr)
	}
	return fetch.Config{
		BaseURL:      o.baseURL,
		Username:     o.username,
		Password:     os.Getenv(envFetchPassword),
		SessionToken: strings.TrimSpace(os.Getenv(envFetchToken)),
		Table:        o.table,
		Format:       o.format,
		Criteria:     criteria,
		Timeout:      o.timeout,
		UserAgent:    version.UserAgent(),
	}, compression, nil
}
