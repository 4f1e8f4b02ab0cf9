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
	dashPrintOnly  bool
	dashConfigPath string
	dashSchemaPath string
	dashTick       time.Duration
	dashLogFile    string
	dashNoWeb      bool
	dashAddr       string
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the interactive terminal dashboard",
	Long:  "dashboard renders the entity universe in the terminal, refreshing from the snapshot file and dispatching commands to the webhook backend.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(dashConfigPath, dashSchemaPath)
		if err != nil {
			return err
		}
		if dashTick > 0 {
			cfg.RefreshInterval = config.Duration(dashTick)
		}

		logger := logging.New()
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		ctx = logging.NewContext(ctx, logger)

		interactive := !dashPrintOnly && term.IsTerminal(int(os.Stdout.Fd()))

		var (
			writer  rowWriter
			tui     *center.TUIWriter
			cleanup = func() {}
		)
		if interactive {
			tui = center.NewTUIWriter(cfg)
			sws := []center.StatusWriter{tui}
			mws := []center.SummaryWriter{tui}
			aws := []center.AlertWriter{tui}
			if os.Getenv("GREPTIMEDB_ENDPOINT") != "" {
				gw, err := greptimeWriter()
				if err != nil {
					tui.Close()
					return err
				}
				sws = append(sws, gw)
				mws = append(mws, gw)
				aws = append(aws, gw)
			}
			if dashLogFile != "" {
				fw, err := center.NewFileWriter(dashLogFile, dashLogFile+".summary", dashLogFile+".alerts")
				if err != nil {
					tui.Close()
					return err
				}
				cleanup = func() { fw.Close() }
				sws = append(sws, fw)
				mws = append(mws, fw)
				aws = append(aws, fw)
			}
			writer = center.NewMultiWriter(sws, mws, aws)
		} else {
			writer, cleanup, err = newWriters(cfg, dashPrintOnly, dashLogFile, term.IsTerminal(int(os.Stdout.Fd())))
			if err != nil {
				return err
			}
		}
		defer cleanup()

		var hook *webhook.Client
		if cfg.WebhookBaseURL != "" {
			hook = webhook.NewClient(cfg.WebhookBaseURL, cfg.WebhookTimeout.Std(), cfg.CommanderEndpoint, cfg.StatusEndpoint)
		}
		if tui != nil && hook != nil {
			tui.SetCommandSender(func(text string) (map[string]any, error) {
				return hook.SendCommand(ctx, text)
			})
			tui.SetActionRunner(func(a config.QuickAction) (map[string]any, error) {
				return hook.Call(ctx, a.Endpoint, nil)
			})
		}

		monitor := center.NewMonitor(cfg, &snapshot.Loader{Path: cfg.SnapshotPath}, writer, writer, writer)

		if !dashNoWeb {
			srv := web.NewServer(monitor, hook)
			go func() {
				if err := srv.Start(ctx, dashAddr); err != nil {
					logger.Error("web server failed", "err", err)
				}
			}()
			if ws, ok := writer.(center.WebStatusWriter); ok {
				ws.SetWebStatus(true)
			}
		}

		go monitor.Run(ctx)

		<-ctx.Done()
		if tui != nil {
			tui.Close()
		}
		logger.Info("command center stopped")
		return nil
	},
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashPrintOnly, "print-only", false, "Print rows to STDOUT instead of rendering the TUI or writing to DB")
	dashboardCmd.Flags().StringVar(&dashConfigPath, "config", "config/command-center.yaml", "Path to command center configuration YAML")
	dashboardCmd.Flags().StringVar(&dashSchemaPath, "schema", "schemas/command-center.cue", "Path to CUE schema file")
	dashboardCmd.Flags().DurationVar(&dashTick, "tick", 0, "Override the refresh interval (e.g. 30s, 5m)")
	dashboardCmd.Flags().StringVar(&dashLogFile, "log-file", "", "Path to export refresh rows (JSONL)")
	dashboardCmd.Flags().BoolVar(&dashNoWeb, "no-web", false, "Disable the embedded web UI")
	dashboardCmd.Flags().StringVar(&dashAddr, "addr", ":8080", "Web UI listen address")
}
