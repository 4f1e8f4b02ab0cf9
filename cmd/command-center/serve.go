package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"command-center/internal/center"
	"command-center/internal/config"
	"command-center/internal/logging"
	"command-center/internal/snapshot"
	"command-center/internal/web"
	"command-center/internal/webhook"
)

var (
	servePrintOnly  bool
	serveConfigPath string
	serveSchemaPath string
	serveTick       time.Duration
	serveLogFile    string
	serveAddr       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the headless web dashboard",
	Long:  "serve runs the refresh loop without a TUI and exposes the web UI, for running on a box the operator reaches via browser.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(serveConfigPath, serveSchemaPath)
		if err != nil {
			return err
		}
		if serveTick > 0 {
			cfg.RefreshInterval = config.Duration(serveTick)
		}

		logger := logging.New()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, logger)

		writer, cleanup, err := newWriters(cfg, servePrintOnly, serveLogFile, term.IsTerminal(int(os.Stdout.Fd())))
		if err != nil {
			return err
		}
		defer cleanup()

		var hook *webhook.Client
		if cfg.WebhookBaseURL != "" {
			hook = webhook.NewClient(cfg.WebhookBaseURL, cfg.WebhookTimeout.Std(), cfg.CommanderEndpoint, cfg.StatusEndpoint)
		}

		monitor := center.NewMonitor(cfg, &snapshot.Loader{Path: cfg.SnapshotPath}, writer, writer, writer)
		go monitor.Run(ctx)

		srv := web.NewServer(monitor, hook)
		if err := srv.Start(ctx, serveAddr); err != nil {
			return err
		}
		logger.Info("command center stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&servePrintOnly, "print-only", false, "Print rows to STDOUT instead of writing to DB")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "config/command-center.yaml", "Path to command center configuration YAML")
	serveCmd.Flags().StringVar(&serveSchemaPath, "schema", "schemas/command-center.cue", "Path to CUE schema file")
	serveCmd.Flags().DurationVar(&serveTick, "tick", 0, "Override the refresh interval (e.g. 30s, 5m)")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Path to export refresh rows (JSONL)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Web UI listen address")
}
