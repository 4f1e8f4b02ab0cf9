// Monitor orchestrating snapshot refreshes and writer fan-out
package center

import (
	"context"
	"sync"
	"time"

	"command-center/internal/config"
	"command-center/internal/graph"
	"command-center/internal/logging"
	"command-center/internal/snapshot"

	"github.com/google/uuid"
)

// Monitor drives the dashboard: on every tick it re-reads the snapshot,
// rebuilds the universe, and fans the resulting rows out to the configured
// writers. Each tick runs to completion before the next can fire; the only
// shared state is the last snapshot, guarded for the web layer's readers.
type Monitor struct {
	cfg     *config.CenterConfig
	loader  *snapshot.Loader
	status  StatusWriter
	summary SummaryWriter
	alerts  AlertWriter

	mu          sync.Mutex
	snap        *snapshot.Snapshot
	state       SnapshotState
	lastRefresh time.Time
}

// NewMonitor wires the monitor. Any writer may be nil to skip that stream.
func NewMonitor(cfg *config.CenterConfig, loader *snapshot.Loader, status StatusWriter, summary SummaryWriter, alerts AlertWriter) *Monitor {
	return &Monitor{
		cfg:     cfg,
		loader:  loader,
		status:  status,
		summary: summary,
		alerts:  alerts,
		state:   SnapshotMissing,
	}
}

// Run refreshes once immediately, then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	interval := m.cfg.RefreshInterval.Std()
	log.Info("starting monitor", "refresh_interval", interval)

	m.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			m.Refresh(ctx)
		case <-ctx.Done():
			log.Info("stopping monitor")
			return
		}
	}
}

// Refresh performs one full pass: load snapshot, derive rows, fan out.
// Load failures degrade to defaulted placeholders and never abort the pass.
func (m *Monitor) Refresh(ctx context.Context) {
	log := logging.FromContext(ctx)

	snap, err := m.loader.Load()
	state := SnapshotOK
	switch {
	case err != nil:
		// Malformed and missing files are indistinguishable downstream;
		// the cause only reaches the log.
		state = SnapshotMalformed
		log.Error("snapshot unreadable, rendering placeholders", "err", err)
	case snap == nil:
		state = SnapshotMissing
	}

	now := time.Now()
	m.mu.Lock()
	m.snap = snap
	m.state = state
	m.lastRefresh = now
	m.mu.Unlock()

	refreshID := uuid.NewString()
	statuses := buildStatusRows(m.cfg.Entities, snap, refreshID, now)
	summaryRow := buildSummaryRow(snap, state, refreshID, now)
	alertRows := buildAlertRows(snap, refreshID, now)

	if m.status != nil {
		if bw, ok := m.status.(batchStatusWriter); ok {
			if err := bw.WriteStatuses(statuses); err != nil {
				log.Error("status batch write failed", "err", err)
			}
		} else {
			for _, row := range statuses {
				if err := m.status.WriteStatus(row); err != nil {
					log.Error("status write failed", "code", row.Code, "err", err)
				}
			}
		}
	}

	if m.summary != nil {
		if err := m.summary.WriteSummary(summaryRow); err != nil {
			log.Error("summary write failed", "err", err)
		}
	}

	if m.alerts != nil && len(alertRows) > 0 {
		if bw, ok := m.alerts.(batchAlertWriter); ok {
			if err := bw.WriteAlerts(alertRows); err != nil {
				log.Error("alert batch write failed", "err", err)
			}
		} else {
			for _, row := range alertRows {
				if err := m.alerts.WriteAlert(row); err != nil {
					log.Error("alert write failed", "err", err)
				}
			}
		}
	}
}

func buildStatusRows(entities []config.Entity, snap *snapshot.Snapshot, refreshID string, ts time.Time) []StatusRow {
	rows := make([]StatusRow, 0, len(entities))
	for _, e := range entities {
		m := snap.Entity(e.Code)
		rows = append(rows, StatusRow{
			RefreshID:      refreshID,
			Code:           e.Code,
			Name:           e.Name,
			Location:       e.Location,
			Regulated:      e.Regulated,
			Health:         m.HealthScore,
			Pending:        m.PendingItems,
			Status:         m.Status,
			RecentActivity: m.RecentActivity,
			Timestamp:      ts,
		})
	}
	return rows
}

func buildSummaryRow(snap *snapshot.Snapshot, state SnapshotState, refreshID string, ts time.Time) SummaryRow {
	row := SummaryRow{
		RefreshID:     refreshID,
		SnapshotState: state,
		Timestamp:     ts,
	}
	if snap != nil {
		row.UnreadEmails = snap.Email.UnreadCount
		row.EventsToday = snap.Calendar.EventsToday
		row.PendingTasks = snap.Health.PendingTasks
		row.AlertCount = snap.Alerts.Count
		row.LastUpdated = snap.LastUpdated
	}
	return row
}

func buildAlertRows(snap *snapshot.Snapshot, refreshID string, ts time.Time) []AlertRow {
	if snap == nil {
		return nil
	}
	rows := make([]AlertRow, 0, len(snap.Alerts.Items))
	for _, item := range snap.Alerts.Items {
		rows = append(rows, AlertRow{
			RefreshID: refreshID,
			Type:      item.Type,
			Severity:  item.Severity,
			Message:   item.Message,
			Timestamp: ts,
		})
	}
	return rows
}

// Universe rebuilds the whole-universe graph from the last snapshot.
func (m *Monitor) Universe() *graph.Graph {
	m.mu.Lock()
	snap := m.snap
	m.mu.Unlock()
	return graph.BuildUniverse(m.cfg.Entities, snap)
}

// Orbit rebuilds the orbit graph for code, nil when code is unknown.
func (m *Monitor) Orbit(code string) *graph.Graph {
	m.mu.Lock()
	snap := m.snap
	m.mu.Unlock()
	return graph.BuildOrbit(m.cfg.Entities, snap, code)
}

// Activity derives the business-activity distribution from the last snapshot.
func (m *Monitor) Activity() []graph.Share {
	m.mu.Lock()
	snap := m.snap
	m.mu.Unlock()
	return graph.ActivityShares(m.cfg.Entities, snap)
}

// PriorityEmails returns the email feed from the last snapshot, empty when
// no snapshot has been read.
func (m *Monitor) PriorityEmails() []snapshot.PriorityEmail {
	m.mu.Lock()
	snap := m.snap
	m.mu.Unlock()
	if snap == nil {
		return nil
	}
	return snap.Email.PriorityEmails
}

// Statuses returns freshly derived per-entity rows for the last snapshot.
func (m *Monitor) Statuses() []StatusRow {
	m.mu.Lock()
	snap, ts := m.snap, m.lastRefresh
	m.mu.Unlock()
	return buildStatusRows(m.cfg.Entities, snap, "", ts)
}

// Summary returns the summary row for the last snapshot.
func (m *Monitor) Summary() SummaryRow {
	m.mu.Lock()
	snap, state, ts := m.snap, m.state, m.lastRefresh
	m.mu.Unlock()
	return buildSummaryRow(snap, state, "", ts)
}

// Config exposes the immutable configuration to the web layer.
func (m *Monitor) Config() *config.CenterConfig { return m.cfg }
