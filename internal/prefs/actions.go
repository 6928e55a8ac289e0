package prefs

import (
	"fmt"
	"os"

	"github.com/dtnitsch/docmark/internal/common"
	"github.com/dtnitsch/docmark/pkg/db"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func open(c *cli.Context) (*db.DB, error) {
	cfg, err := common.LoadConfig(c)
	if err != nil {
		return nil, cli.Exit(err.Error(), common.ExitSetup)
	}
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("failed to open database: %v", err), common.ExitSetup)
	}
	return database, nil
}

// ShowAction prints the remembered defaults as YAML, grouped by workflow.
func ShowAction(c *cli.Context) error {
	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	prefs, err := database.ListPreferences()
	if err != nil {
		return fmt.Errorf("failed to list preferences: %w", err)
	}
	if len(prefs) == 0 {
		fmt.Println("No remembered defaults")
		return nil
	}

	grouped := map[string]map[string]string{}
	for _, p := range prefs {
		if grouped[p.Workflow] == nil {
			grouped[p.Workflow] = map[string]string{}
		}
		grouped[p.Workflow][p.Key] = p.Value
	}

	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(grouped)
}

// ResetAction forgets the remembered defaults of one workflow or all of them.
func ResetAction(c *cli.Context) error {
	workflow := c.String("workflow")
	switch workflow {
	case "", db.WorkflowExtract, db.WorkflowStamp:
	default:
		return cli.Exit(fmt.Sprintf("unknown workflow %q", workflow), common.ExitSetup)
	}

	database, err := open(c)
	if err != nil {
		return err
	}
	defer database.Close()

	n, err := database.ClearPreferences(workflow)
	if err != nil {
		return err
	}
	fmt.Printf("Cleared %d remembered defaults\n", n)
	return nil
}
