package common

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/eventscope/models"
	"github.com/dtnitsch/eventscope/pkg/geofence"
	"github.com/dtnitsch/eventscope/pkg/tags"
)

// NewLogger builds the JSON stderr logger from --quiet / --verbose.
func NewLogger(c *cli.Context) *slog.Logger {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	} else if c.Bool("verbose") {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

// LoadRuntime reads the config file and the tag mapping it points to.
// --mapping and --geofence-berlin override the file.
func LoadRuntime(c *cli.Context) (*models.Config, *tags.Mapping, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if c.IsSet("mapping") {
		cfg.MappingPath = c.String("mapping")
	}
	if c.Bool("geofence-berlin") {
		cfg.Geofence = geofence.Berlin()
	}

	mapping, err := tags.LoadMapping(cfg.MappingPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load tag mapping: %w", err)
	}
	return cfg, mapping, nil
}

// WriteOutput renders v as YAML (default) or JSON.
func WriteOutput(w io.Writer, v interface{}, format string) error {
	switch format {
	case "", "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		return enc.Close()
	case "json":
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	default:
		return fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}
