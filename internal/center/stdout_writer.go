// Writer printing refresh output to STDOUT, colorized on terminals
package center

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"text/tabwriter"
	"time"

	"command-center/internal/config"
)

const (
	colorReset   = "\x1b[0m"
	colorRed     = "\x1b[31m"
	colorGreen   = "\x1b[32m"
	colorYellow  = "\x1b[33m"
	colorBlue    = "\x1b[34m"
	colorMagenta = "\x1b[35m"
	colorCyan    = "\x1b[36m"
	colorGray    = "\x1b[90m"
)

func colorWhite() string { return "\x1b[37m" }

// healthTier picks the ANSI color for a health score, same tiers as the
// orbit satellites.
func healthTier(health int) string {
	switch {
	case health >= 80:
		return colorGreen
	case health >= 60:
		return colorYellow
	default:
		return colorRed
	}
}

// StdoutWriter prints rows to STDOUT: human-friendly colorized lines on a
// terminal, one JSON object per line otherwise.
type StdoutWriter struct {
	cfg      *config.CenterConfig
	out      io.Writer
	colorize bool
	once     sync.Once
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter(cfg *config.CenterConfig, colorize bool) *StdoutWriter {
	return &StdoutWriter{cfg: cfg, out: os.Stdout, colorize: colorize}
}

func (w *StdoutWriter) printOverview() {
	if w.cfg == nil {
		return
	}
	fmt.Fprintln(w.out, "Command Center Configuration:")
	tw := tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Refresh Interval:\t%s\n", w.cfg.RefreshInterval.Std())
	fmt.Fprintf(tw, "Snapshot Path:\t%s\n", w.cfg.SnapshotPath)
	fmt.Fprintf(tw, "Webhook Base URL:\t%s\n", w.cfg.WebhookBaseURL)
	tw.Flush()

	fmt.Fprintln(w.out, "\nEntities:")
	tw = tabwriter.NewWriter(w.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Code\tName\tLocation\tRegulated\n")
	for _, e := range w.cfg.Entities {
		fmt.Fprintf(tw, "%s%s%s\t%s\t%s\t%t\n", colorCyan, e.Code, colorReset, e.Name, e.Location, e.Regulated)
	}
	tw.Flush()
	fmt.Fprintln(w.out)
}

// WriteStatus outputs a single entity status row.
func (w *StdoutWriter) WriteStatus(row StatusRow) error {
	if !w.colorize {
		data, _ := json.Marshal(row)
		fmt.Fprintln(w.out, string(data))
		return nil
	}
	w.once.Do(w.printOverview)
	statusColor := colorGreen
	if row.Status != "Active" {
		statusColor = colorRed
	}
	pendingColor := colorGreen
	if row.Pending > 0 {
		pendingColor = colorYellow
	}
	line := fmt.Sprintf("%s[%s]%s %scode=%s%s %sloc=%s%s %shealth=%d%s %spending=%d%s %sstatus=%s%s %s%s%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorCyan, row.Code, colorReset,
		colorBlue, row.Location, colorReset,
		healthTier(row.Health), row.Health, colorReset,
		pendingColor, row.Pending, colorReset,
		statusColor, row.Status, colorReset,
		colorGray, row.RecentActivity, colorReset,
	)
	if row.Regulated {
		line += fmt.Sprintf(" %sregulated%s", colorMagenta, colorReset)
	}
	fmt.Fprintln(w.out, line)
	return nil
}

// WriteStatuses outputs multiple status rows.
func (w *StdoutWriter) WriteStatuses(rows []StatusRow) error {
	for _, r := range rows {
		_ = w.WriteStatus(r)
	}
	return nil
}

// WriteSummary outputs the per-refresh summary row.
func (w *StdoutWriter) WriteSummary(row SummaryRow) error {
	if !w.colorize {
		data, _ := json.Marshal(row)
		fmt.Fprintln(w.out, string(data))
		return nil
	}
	w.once.Do(w.printOverview)
	stateColor := colorGreen
	if row.SnapshotState != SnapshotOK {
		stateColor = colorYellow
	}
	fmt.Fprintf(w.out, "%sSUMMARY%s %semails=%d%s %sevents=%d%s %stasks=%d%s %salerts=%d%s %ssnapshot=%s%s %supdated=%s%s\n",
		colorBlue, colorReset,
		colorCyan, row.UnreadEmails, colorReset,
		colorGreen, row.EventsToday, colorReset,
		colorYellow, row.PendingTasks, colorReset,
		colorRed, row.AlertCount, colorReset,
		stateColor, row.SnapshotState, colorReset,
		colorGray, row.LastUpdated, colorReset,
	)
	return nil
}

// WriteAlert outputs a single alert row.
func (w *StdoutWriter) WriteAlert(row AlertRow) error {
	if !w.colorize {
		data, _ := json.Marshal(row)
		fmt.Fprintln(w.out, string(data))
		return nil
	}
	w.once.Do(w.printOverview)
	fmt.Fprintf(w.out, "%s[%s]%s %sALERT%s %stype=%s%s %sseverity=%s%s %s%s%s\n",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorRed, colorReset,
		colorMagenta, row.Type, colorReset,
		colorYellow, row.Severity, colorReset,
		colorWhite(), row.Message, colorReset,
	)
	return nil
}

// WriteAlerts outputs multiple alert rows.
func (w *StdoutWriter) WriteAlerts(rows []AlertRow) error {
	for _, r := range rows {
		_ = w.WriteAlert(r)
	}
	return nil
}
