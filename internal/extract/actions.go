package extract

import (
	"fmt"
	"os"

	"github.com/dtnitsch/docmark/internal/common"
	"github.com/dtnitsch/docmark/models"
	"github.com/dtnitsch/docmark/pkg/db"
	"github.com/dtnitsch/docmark/pkg/selector"
	"github.com/dtnitsch/docmark/pkg/status"
	"github.com/dtnitsch/docmark/pkg/workflow"
	"github.com/urfave/cli/v2"
)

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "pdf",
			Aliases: []string{"f"},
			Usage:   "PDF file to filter",
		},
		&cli.StringFlag{
			Name:    "mode",
			Aliases: []string{"m"},
			Usage:   "detection filter: stamp_only, signature_only, qr_only, stamp_signature, qr_signature, none, stamp_signature_qr (remembered)",
		},
		&cli.StringFlag{
			Name:  "output-mode",
			Usage: "single or split (remembered, default single)",
		},
		&cli.BoolFlag{
			Name:  "include-clean",
			Usage: "also return the pages without any detected element (remembered)",
		},
	}
}

func ExtractAction(c *cli.Context) error {
	cfg, logger, err := common.Setup(c)
	if err != nil {
		return err
	}

	store, closeStore := common.OpenPreferences(cfg, db.WorkflowExtract, logger)
	defer closeStore()

	sel := selector.NewExtractSelector(store, logger)
	if c.IsSet("mode") {
		mode, err := models.ParseMode(c.String("mode"))
		if err != nil {
			return cli.Exit(err.Error(), common.ExitSetup)
		}
		sel.SelectMode(mode)
	}
	if c.IsSet("output-mode") {
		om, err := models.ParseOutputMode(c.String("output-mode"))
		if err != nil {
			return cli.Exit(err.Error(), common.ExitSetup)
		}
		sel.SelectOutputMode(om)
	}
	if c.IsSet("include-clean") {
		sel.SetIncludeClean(c.Bool("include-clean"))
	}

	w := workflow.NewExtract(sel, workflow.Deps{
		Client:    common.NewClient(cfg, logger),
		Reporter:  status.NewConsole(os.Stdout, ""),
		OutputDir: cfg.OutputDir,
		Logger:    logger,
	})

	attempt, err := w.Submit(c.Context, models.ExtractInput{PDF: c.String("pdf")})
	if err != nil {
		logger.Error("extract failed", "error", err)
		return cli.Exit("", common.ExitSetup)
	}
	if !attempt.OK() {
		return cli.Exit("", common.ExitFailed)
	}
	fmt.Println(attempt.SavedPath)
	return nil
}
