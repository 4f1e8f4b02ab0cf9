package center

import (
	"context"
	"log"

	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	ingesterContext "github.com/GreptimeTeam/greptimedb-ingester-go/context"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// Default GreptimeDB table names, overridable via env in the CLI layer.
const (
	DefaultStatusTable  = "entity_status"
	DefaultSummaryTable = "center_summary"
	DefaultAlertTable   = "center_alerts"
)

// GreptimeWriter keeps a queryable history of every refresh in GreptimeDB.
type GreptimeWriter struct {
	client       greptime.Client
	db           string
	statusTable  string
	summaryTable string
	alertTable   string
}

// NewGreptimeWriter creates a GreptimeDB writer and auto-creates the tables
// if needed. Empty table names fall back to the defaults.
func NewGreptimeWriter(endpoint, database, statusTable, summaryTable, alertTable string) (*GreptimeWriter, error) {
	if statusTable == "" {
		statusTable = DefaultStatusTable
	}
	if summaryTable == "" {
		summaryTable = DefaultSummaryTable
	}
	if alertTable == "" {
		alertTable = DefaultAlertTable
	}

	ctx := ingesterContext.NewContext(context.Background())
	client, err := greptime.NewClient(ctx, &greptime.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	ddls := []string{
		`CREATE TABLE IF NOT EXISTS ` + statusTable + ` (
  code STRING TAG,
  location STRING TAG,
  refresh_id STRING,
  health DOUBLE,
  pending DOUBLE,
  status STRING,
  regulated STRING,
  recent_activity STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='90d')`,
		`CREATE TABLE IF NOT EXISTS ` + summaryTable + ` (
  refresh_id STRING TAG,
  unread_emails DOUBLE,
  events_today DOUBLE,
  pending_tasks DOUBLE,
  alert_count DOUBLE,
  snapshot_state STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='90d')`,
		`CREATE TABLE IF NOT EXISTS ` + alertTable + ` (
  type STRING TAG,
  severity STRING TAG,
  refresh_id STRING,
  message STRING,
  ts TIMESTAMP TIME INDEX
) WITH (ttl='90d')`,
	}
	for _, ddl := range ddls {
		if _, err := client.SQL(ctx, ddl); err != nil {
			return nil, err
		}
	}

	return &GreptimeWriter{
		client:       client,
		db:           database,
		statusTable:  statusTable,
		summaryTable: summaryTable,
		alertTable:   alertTable,
	}, nil
}

// WriteStatus inserts a single status row.
func (w *GreptimeWriter) WriteStatus(row StatusRow) error {
	return w.WriteStatuses([]StatusRow{row})
}

// WriteStatuses inserts multiple status rows.
func (w *GreptimeWriter) WriteStatuses(rows []StatusRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.statusTable)
	tbl.AddTagColumn("code", types.StringType, 0)
	tbl.AddTagColumn("location", types.StringType, 0)
	tbl.AddFieldColumn("refresh_id", types.StringType)
	tbl.AddFieldColumn("health", types.Float64Type)
	tbl.AddFieldColumn("pending", types.Float64Type)
	tbl.AddFieldColumn("status", types.StringType)
	tbl.AddFieldColumn("regulated", types.StringType)
	tbl.AddFieldColumn("recent_activity", types.StringType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		regulated := "false"
		if r.Regulated {
			regulated = "true"
		}
		tbl.AppendTagValue("code", r.Code)
		tbl.AppendTagValue("location", r.Location)
		tbl.AppendFieldValue("refresh_id", r.RefreshID)
		tbl.AppendFieldValue("health", float64(r.Health))
		tbl.AppendFieldValue("pending", float64(r.Pending))
		tbl.AppendFieldValue("status", r.Status)
		tbl.AppendFieldValue("regulated", regulated)
		tbl.AppendFieldValue("recent_activity", r.RecentActivity)
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeWriter] status write failed: %v", err)
		return err
	}
	return nil
}

// WriteSummary inserts the per-refresh summary row.
func (w *GreptimeWriter) WriteSummary(row SummaryRow) error {
	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.summaryTable)
	tbl.AddTagColumn("refresh_id", types.StringType, 0)
	tbl.AddFieldColumn("unread_emails", types.Float64Type)
	tbl.AddFieldColumn("events_today", types.Float64Type)
	tbl.AddFieldColumn("pending_tasks", types.Float64Type)
	tbl.AddFieldColumn("alert_count", types.Float64Type)
	tbl.AddFieldColumn("snapshot_state", types.StringType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	tbl.AppendTagValue("refresh_id", row.RefreshID)
	tbl.AppendFieldValue("unread_emails", float64(row.UnreadEmails))
	tbl.AppendFieldValue("events_today", float64(row.EventsToday))
	tbl.AppendFieldValue("pending_tasks", float64(row.PendingTasks))
	tbl.AppendFieldValue("alert_count", float64(row.AlertCount))
	tbl.AppendFieldValue("snapshot_state", string(row.SnapshotState))
	tbl.AppendTimeIndex(row.Timestamp)

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeWriter] summary write failed: %v", err)
		return err
	}
	return nil
}

// WriteAlert inserts a single alert row.
func (w *GreptimeWriter) WriteAlert(row AlertRow) error {
	return w.WriteAlerts([]AlertRow{row})
}

// WriteAlerts inserts multiple alert rows.
func (w *GreptimeWriter) WriteAlerts(rows []AlertRow) error {
	if len(rows) == 0 {
		return nil
	}

	ctx := ingesterContext.NewContext(context.Background())

	tbl := table.New(w.alertTable)
	tbl.AddTagColumn("type", types.StringType, 0)
	tbl.AddTagColumn("severity", types.StringType, 0)
	tbl.AddFieldColumn("refresh_id", types.StringType)
	tbl.AddFieldColumn("message", types.StringType)
	tbl.SetTimeIndex("ts", types.TimestampType)

	for _, r := range rows {
		tbl.AppendTagValue("type", r.Type)
		tbl.AppendTagValue("severity", r.Severity)
		tbl.AppendFieldValue("refresh_id", r.RefreshID)
		tbl.AppendFieldValue("message", r.Message)
		tbl.AppendTimeIndex(r.Timestamp)
	}

	if err := w.client.Write(ctx, w.db, []*table.Table{tbl}); err != nil {
		log.Printf("[GreptimeWriter] alert write failed: %v", err)
		return err
	}
	return nil
}
