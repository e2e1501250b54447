package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/eventscope/internal/export"
	"github.com/dtnitsch/eventscope/internal/serve"
	"github.com/dtnitsch/eventscope/internal/views"
	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/snapshot"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	formatFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "format", Value: "yaml", Usage: "Output format: yaml or json"}
	}
	selectionFlags := []cli.Flag{
		&cli.StringFlag{Name: "source", Value: string(models.SourceAll), Usage: "Map source filter (All, EventBrite, Eventim)"},
		&cli.StringFlag{Name: "tag", Value: models.TagAll, Usage: "Map tag filter (All or a mapping key/value)"},
		&cli.StringFlag{Name: "freq", Value: string(models.SourceAll), Usage: "Source for the category frequency view"},
	}

	return &cli.App{
		Name:  "eventscope",
		Usage: "Unified dashboard views over EventBrite and Eventim exports",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   models.DefaultConfigPath,
				EnvVars: []string{"EVENTSCOPE_CONFIG"},
				Usage:   "Path to the YAML config file",
			},
			&cli.StringFlag{Name: "mapping", Usage: "Override the tag mapping file"},
			&cli.BoolFlag{Name: "geofence-berlin", Usage: "Restrict events to the Berlin bounding boxes"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Only log errors"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:   "views",
				Usage:  "Compute a view once and print it",
				Action: views.ViewsAction,
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "view", Value: "dashboard", Usage: "dashboard, map, frequency, duration or venues"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write the output to a file instead of stdout"},
					formatFlag(),
				}, selectionFlags...),
			},
			{
				Name:   "options",
				Usage:  "List accepted selector values",
				Action: views.OptionsAction,
				Flags:  []cli.Flag{formatFlag()},
			},
			{
				Name:   "serve",
				Usage:  "Serve the dashboard API over HTTP",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "listen", Usage: "Listen address (overrides config)"},
				},
			},
			{
				Name:   "export",
				Usage:  "Write the unified event table to SQLite",
				Action: export.ExportAction,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Value: snapshot.DefaultDBName, Usage: "SQLite file path"},
					formatFlag(),
				},
			},
		},
	}
}
