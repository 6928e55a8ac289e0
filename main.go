package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dtnitsch/docmark/internal/batch"
	"github.com/dtnitsch/docmark/internal/extract"
	"github.com/dtnitsch/docmark/internal/health"
	"github.com/dtnitsch/docmark/internal/prefs"
	"github.com/dtnitsch/docmark/internal/stamp"
	"github.com/dtnitsch/docmark/models"
	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "docmark",
		Usage: "send PDFs to the document processing API and save the results",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Value: models.DefaultConfigFile,
				Usage: "YAML config file (optional)",
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "API base URL (default " + models.DefaultBaseURL + ")",
				EnvVars: []string{models.EnvBaseURL},
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Usage:   "directory for saved results",
				EnvVars: []string{models.EnvOutputDir},
			},
			&cli.StringFlag{
				Name:    "timeout",
				Usage:   "request timeout, e.g. 2m (default: wait indefinitely)",
				EnvVars: []string{models.EnvRequestTimeout},
			},
			&cli.StringFlag{
				Name:    "db",
				Usage:   "preference database path (default: next to the binary)",
				EnvVars: []string{models.EnvDBPath},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug details",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "keep the pages matching a detection mode",
				Flags:  extract.Flags(),
				Action: extract.ExtractAction,
			},
			{
				Name:   "stamp",
				Usage:  "place stamp, signature and QR images on a PDF",
				Flags:  stamp.Flags(),
				Action: stamp.StampAction,
			},
			{
				Name:  "batch",
				Usage: "run the submissions listed in a YAML job file concurrently",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "job file",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "maximum concurrent submissions",
					},
				},
				Action: batch.BatchAction,
			},
			{
				Name:   "health",
				Usage:  "check that the API is reachable",
				Action: health.HealthAction,
			},
			{
				Name:  "prefs",
				Usage: "inspect or reset the remembered mode and option defaults",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "print remembered defaults",
						Action: prefs.ShowAction,
					},
					{
						Name:  "reset",
						Usage: "forget remembered defaults",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "workflow",
								Usage: "extract or stamp (default: both)",
							},
						},
						Action: prefs.ResetAction,
					},
				},
			},
		},
	}
}
