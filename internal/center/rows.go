// Row types emitted on every refresh pass
package center

import "time"

// SnapshotState describes the outcome of the last snapshot load.
type SnapshotState string

const (
	// SnapshotOK means the snapshot file was read and parsed.
	SnapshotOK SnapshotState = "ok"
	// SnapshotMissing is the expected steady state before the first
	// external update; it renders as loading placeholders, not an error.
	SnapshotMissing SnapshotState = "missing"
	// SnapshotMalformed means the file exists but could not be parsed.
	SnapshotMalformed SnapshotState = "malformed"
)

// StatusRow is one entity's resolved status for one refresh pass.
type StatusRow struct {
	RefreshID      string    `json:"refresh_id"`
	Code           string    `json:"code"`
	Name           string    `json:"name"`
	Location       string    `json:"location"`
	Regulated      bool      `json:"regulated"`
	Health         int       `json:"health"`
	Pending        int       `json:"pending"`
	Status         string    `json:"status"`
	RecentActivity string    `json:"recent_activity"`
	Timestamp      time.Time `json:"ts"`
}

// SummaryRow carries the top-level counters for one refresh pass.
type SummaryRow struct {
	RefreshID     string        `json:"refresh_id"`
	UnreadEmails  int           `json:"unread_emails"`
	EventsToday   int           `json:"events_today"`
	PendingTasks  int           `json:"pending_tasks"`
	AlertCount    int           `json:"alert_count"`
	SnapshotState SnapshotState `json:"snapshot_state"`
	LastUpdated   string        `json:"last_updated"`
	Timestamp     time.Time     `json:"ts"`
}

// AlertRow is one urgent item from the snapshot's alert feed.
type AlertRow struct {
	RefreshID string    `json:"refresh_id"`
	Type      string    `json:"type"`
	Severity  string    `json:"severity"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"ts"`
}
