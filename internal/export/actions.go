package export

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/eventscope/internal/common"
	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/pipeline"
	"github.com/dtnitsch/eventscope/pkg/snapshot"
)

// ExportAction writes the unified table of one run to a SQLite file.
func ExportAction(c *cli.Context) error {
	logger := common.NewLogger(c)

	cfg, mapping, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	set, err := pipeline.New(cfg, mapping, logger, nil).Build(c.Context)
	if err != nil {
		return err
	}

	db, err := snapshot.Open(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	runID, err := db.WriteTable(c.Context, set.All, mapping.Len())
	if err != nil {
		return fmt.Errorf("failed to export events: %w", err)
	}
	logger.Info("export complete", "run_id", runID, "events", set.All.Len(), "db", db.Path())

	return common.WriteOutput(os.Stdout, models.Response{
		View: "export",
		Data: map[string]interface{}{
			"run_id":     runID,
			"db":         db.Path(),
			"row_counts": set.RowCounts(),
		},
	}, c.String("format"))
}
