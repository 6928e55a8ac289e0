package batch

import (
	"fmt"
	"os"
	"time"

	"github.com/dtnitsch/docmark/internal/common"
	"github.com/dtnitsch/docmark/pkg/batch"
	"github.com/urfave/cli/v2"
)

func BatchAction(c *cli.Context) error {
	cfg, logger, err := common.Setup(c)
	if err != nil {
		return err
	}

	jobs, err := batch.Load(c.String("file"))
	if err != nil {
		logger.Error("failed to load job file", "error", err, "file", c.String("file"))
		return cli.Exit(err.Error(), common.ExitSetup)
	}

	workers := cfg.Workers
	if c.IsSet("workers") {
		workers = c.Int("workers")
	}

	startTime := time.Now()
	runner := &batch.Runner{
		Client:    common.NewClient(cfg, logger),
		OutputDir: cfg.OutputDir,
		Workers:   workers,
		Out:       os.Stdout,
		Logger:    logger,
	}
	reports := runner.Run(c.Context, jobs)

	failed := batch.Failed(reports)
	fmt.Printf("\n%d jobs, %d succeeded, %d failed in %.1fs\n",
		len(reports), len(reports)-failed, failed, time.Since(startTime).Seconds())
	for _, rep := range reports {
		if rep.Attempt != nil && rep.Attempt.SavedPath != "" {
			fmt.Printf("  %-20s %s\n", rep.Job.Name, rep.Attempt.SavedPath)
		}
	}

	if failed > 0 {
		return cli.Exit("", common.ExitFailed)
	}
	return nil
}
