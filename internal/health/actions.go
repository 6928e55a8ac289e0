package health

import (
	"os"

	"github.com/dtnitsch/docmark/internal/common"
	"github.com/dtnitsch/docmark/pkg/status"
	"github.com/urfave/cli/v2"
)

func HealthAction(c *cli.Context) error {
	cfg, logger, err := common.Setup(c)
	if err != nil {
		return err
	}

	console := status.NewConsole(os.Stdout, cfg.BaseURL)
	console.Report(status.Pending("Checking server..."))
	if err := common.NewClient(cfg, logger).Health(c.Context); err != nil {
		logger.Debug("health check failed", "error", err)
		console.Report(status.Error("Could not reach a healthy server."))
		return cli.Exit("", common.ExitFailed)
	}
	console.Report(status.Success("Server is up."))
	return nil
}
