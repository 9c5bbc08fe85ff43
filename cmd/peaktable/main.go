package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/samcharles93/peaktable/internal/logger"
	"github.com/samcharles93/peaktable/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:    "peaktable",
		Usage:   "Peak table record file toolkit",
		Version: version.String(),
		Flags:   loggingFlags(),
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg := LoadConfig()
			applyLoggingConfig(cmd, cfg)
			level := logger.ParseLevel(logLevel)
			if debug {
				level = logger.ParseLevel("debug")
			}
			log, err := logger.ForFormat(os.Stderr, resolveLogFormat(logFormat, noColor), level)
			if err != nil {
				return ctx, cli.Exit(fmt.Sprintf("error: %v", err), 1)
			}
			return logger.WithContext(ctx, log), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			inspectCmd(),
			plotCmd(),
			synthCmd(),
			fetchCmd(),
			serveCmd(),
			versionCmd(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveLogFormat maps pretty to plain when colour is disabled.
func resolveLogFormat(format string, noColor bool) string {
	f := strings.ToLower(strings.TrimSpace(format))
	if noColor && (f == "" || f == "pretty") {
		return "plain"
	}
	return format
}
