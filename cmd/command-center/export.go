package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"command-center/internal/center"
	"command-center/internal/config"
	"command-center/internal/logging"
	"command-center/internal/snapshot"
)

var (
	exportConfigPath string
	exportSchemaPath string
	exportDir        string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the graph views as JSON artifacts",
	Long:  "export performs one refresh and writes the universe, per-entity orbits, activity shares, and status rows as JSON files, for embedding in other dashboards.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(exportConfigPath, exportSchemaPath)
		if err != nil {
			return err
		}

		ctx := logging.NewContext(cmd.Context(), logging.New())
		monitor := center.NewMonitor(cfg, &snapshot.Loader{Path: cfg.SnapshotPath}, nil, nil, nil)
		monitor.Refresh(ctx)

		if err := os.MkdirAll(exportDir, 0o755); err != nil {
			return err
		}

		artifacts := map[string]any{
			"universe.json": monitor.Universe(),
			"activity.json": monitor.Activity(),
			"status.json":   monitor.Statuses(),
			"summary.json":  monitor.Summary(),
		}
		for _, e := range cfg.Entities {
			name := fmt.Sprintf("orbit-%s.json", strings.ToLower(e.Code))
			artifacts[name] = monitor.Orbit(e.Code)
		}

		for name, v := range artifacts {
			if err := writeArtifact(filepath.Join(exportDir, name), v); err != nil {
				return err
			}
		}
		logging.FromContext(ctx).Info("export complete", "dir", exportDir, "files", len(artifacts))
		return nil
	},
}

func writeArtifact(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func init() {
	exportCmd.Flags().StringVar(&exportConfigPath, "config", "config/command-center.yaml", "Path to command center configuration YAML")
	exportCmd.Flags().StringVar(&exportSchemaPath, "schema", "schemas/command-center.cue", "Path to CUE schema file")
	exportCmd.Flags().StringVar(&exportDir, "out", "build", "Output directory for JSON artifacts")
}
