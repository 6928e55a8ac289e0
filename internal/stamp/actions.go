package stamp

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
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "pdf",
			Aliases: []string{"f"},
			Usage:   "source PDF file",
		},
		&cli.StringFlag{
			Name:  "position",
			Usage: "placement for every image: top-left, top-right, bottom-left, bottom-right (remembered)",
		},
	}
	for _, slot := range models.Slots {
		flags = append(flags,
			&cli.StringFlag{
				Name:  string(slot),
				Usage: fmt.Sprintf("%s image file", slot),
			},
			&cli.StringFlag{
				Name:  string(slot) + "-pages",
				Usage: fmt.Sprintf("pages for the %s image, e.g. \"1-3\" or \"all\"", slot),
			},
		)
	}
	return flags
}

func StampAction(c *cli.Context) error {
	cfg, logger, err := common.Setup(c)
	if err != nil {
		return err
	}

	store, closeStore := common.OpenPreferences(cfg, db.WorkflowStamp, logger)
	defer closeStore()

	sel := selector.NewStampSelector(store, logger)
	if c.IsSet("position") {
		pos, err := models.ParsePosition(c.String("position"))
		if err != nil {
			return cli.Exit(err.Error(), common.ExitSetup)
		}
		sel.SelectPosition(pos)
	}

	input := models.StampInput{
		PDF:    c.String("pdf"),
		Images: map[models.Slot]models.Image{},
	}
	for _, slot := range models.Slots {
		path := c.String(string(slot))
		if path == "" {
			continue
		}
		input.Images[slot] = models.Image{Path: path, Pages: c.String(string(slot) + "-pages")}
	}

	w := workflow.NewStamp(sel, workflow.Deps{
		Client:    common.NewClient(cfg, logger),
		Reporter:  status.NewConsole(os.Stdout, ""),
		OutputDir: cfg.OutputDir,
		Logger:    logger,
	})

	attempt, err := w.Submit(c.Context, input)
	if err != nil {
		logger.Error("stamp failed", "error", err)
		return cli.Exit("", common.ExitSetup)
	}
	if !attempt.OK() {
		return cli.Exit("", common.ExitFailed)
	}
	fmt.Println(attempt.SavedPath)
	return nil
}
