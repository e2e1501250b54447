package views

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/eventscope/internal/common"
	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/pipeline"
	"github.com/dtnitsch/eventscope/pkg/server"
	"github.com/dtnitsch/eventscope/pkg/storage"
	viewspkg "github.com/dtnitsch/eventscope/pkg/views"
)

// ViewsAction runs the pipeline once and prints the requested view.
func ViewsAction(c *cli.Context) error {
	logger := common.NewLogger(c)
	view := c.String("view")
	format := c.String("format")

	switch view {
	case "dashboard", "map", "frequency", "duration", "venues":
	default:
		_ = common.WriteOutput(os.Stdout, models.NewUnknownViewResponse(view), format)
		return fmt.Errorf("unknown view: %s", view)
	}

	cfg, mapping, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}

	sel, err := viewspkg.ParseSelection(c.String("source"), c.String("tag"), c.String("freq"), mapping)
	if err != nil {
		_ = common.WriteOutput(os.Stdout, models.NewErrorResponse(view, "invalid_selection", err.Error(),
			"Run 'eventscope options' to list accepted values"), format)
		return err
	}

	p := pipeline.New(cfg, mapping, logger, nil)
	dash, err := p.Run(c.Context, sel)
	if err != nil {
		resp := models.NewErrorResponse(view, "pipeline_error", err.Error())
		if errors.Is(err, fs.ErrNotExist) {
			resp = models.NewErrorResponse(view, "missing_export", err.Error(),
				"Check the source paths in the config file")
		}
		_ = common.WriteOutput(os.Stdout, resp, format)
		return err
	}

	resp := models.Response{View: view, Data: server.ViewData(dash, view)}
	if out := c.String("out"); out != "" {
		var buf bytes.Buffer
		if err := common.WriteOutput(&buf, resp, format); err != nil {
			return err
		}
		if err := storage.SaveFile(out, buf.Bytes()); err != nil {
			return err
		}
		logger.Info("view written", "view", view, "path", out)
		return nil
	}
	return common.WriteOutput(os.Stdout, resp, format)
}

// OptionsAction prints the accepted selector values.
func OptionsAction(c *cli.Context) error {
	_, mapping, err := common.LoadRuntime(c)
	if err != nil {
		return err
	}
	return common.WriteOutput(os.Stdout, models.Response{
		View: "options",
		Data: viewspkg.BuildOptions(mapping),
	}, c.String("format"))
}
