package center

// StatusWriter receives per-entity status rows.
type StatusWriter interface {
	WriteStatus(StatusRow) error
}

// SummaryWriter receives the per-refresh summary row.
type SummaryWriter interface {
	WriteSummary(SummaryRow) error
}

// AlertWriter receives urgent alert rows.
type AlertWriter interface {
	WriteAlert(AlertRow) error
}

// Optional: status writers may support batch mode.
type batchStatusWriter interface {
	WriteStatuses([]StatusRow) error
}

// Optional: alert writers may support batch mode.
type batchAlertWriter interface {
	WriteAlerts([]AlertRow) error
}

// WebStatusWriter allows writers to show whether the web UI is listening.
type WebStatusWriter interface {
	SetWebStatus(active bool)
}
