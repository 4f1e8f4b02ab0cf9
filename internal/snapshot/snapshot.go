// Package snapshot reads the metrics file produced by the external
// automation pipeline. The file schema is permissive: every field is
// optional and resolves to a documented default exactly once, at load time.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Defaults for absent entity fields.
const (
	DefaultHealthScore = 80
	DefaultStatus      = "Active"
	DefaultActivity    = "No recent activity"
)

// StatusActive is the status value treated as healthy by the graph builder.
const StatusActive = "Active"

// EntityMetrics holds the resolved per-entity metrics.
type EntityMetrics struct {
	HealthScore    int    `json:"health_score"`
	PendingItems   int    `json:"pending_items"`
	Status         string `json:"status"`
	RecentActivity string `json:"recent_activity"`
}

// PriorityEmail is one entry of the email feed.
type PriorityEmail struct {
	Subject  string `json:"subject"`
	From     string `json:"from"`
	Entity   string `json:"entity"`
	Priority string `json:"priority"`
}

// EmailSummary aggregates mailbox counters.
type EmailSummary struct {
	UnreadCount    int             `json:"unread_count"`
	PriorityEmails []PriorityEmail `json:"priority_emails"`
}

// CalendarSummary aggregates calendar counters.
type CalendarSummary struct {
	EventsToday int `json:"events_today"`
}

// SystemHealth aggregates task counters.
type SystemHealth struct {
	PendingTasks int `json:"pending_tasks"`
}

// AlertItem is one urgent item surfaced on the dashboard.
type AlertItem struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// Alerts aggregates urgent items.
type Alerts struct {
	Count int         `json:"count"`
	Items []AlertItem `json:"items"`
}

// Snapshot is a point-in-time read of externally computed metrics.
// It is never mutated after load.
type Snapshot struct {
	Entities    map[string]EntityMetrics `json:"entities"`
	Email       EmailSummary             `json:"email_summary"`
	Calendar    CalendarSummary          `json:"calendar_summary"`
	Health      SystemHealth             `json:"system_health"`
	Alerts      Alerts                   `json:"alerts"`
	LastUpdated string                   `json:"last_updated"`
}

// DefaultMetrics returns the metrics used when an entity has no entry.
func DefaultMetrics() EntityMetrics {
	return EntityMetrics{
		HealthScore:    DefaultHealthScore,
		PendingItems:   0,
		Status:         DefaultStatus,
		RecentActivity: DefaultActivity,
	}
}

// Entity returns the resolved metrics for code. A nil snapshot or a missing
// entry both yield the defaults, so callers never branch on presence.
func (s *Snapshot) Entity(code string) EntityMetrics {
	if s == nil {
		return DefaultMetrics()
	}
	m, ok := s.Entities[code]
	if !ok {
		return DefaultMetrics()
	}
	return m
}

// raw mirror of the wire schema with pointer fields so that absent and
// zero-valued fields can be told apart during normalization.
type rawEntity struct {
	HealthScore    *int    `json:"health_score"`
	PendingItems   *int    `json:"pending_items"`
	Status         *string `json:"status"`
	RecentActivity *string `json:"recent_activity"`
}

type rawSnapshot struct {
	Entities    map[string]rawEntity `json:"entities"`
	Email       EmailSummary         `json:"email_summary"`
	Calendar    CalendarSummary      `json:"calendar_summary"`
	Health      SystemHealth         `json:"system_health"`
	Alerts      Alerts               `json:"alerts"`
	LastUpdated string               `json:"last_updated"`
}

func (r *rawSnapshot) normalize() *Snapshot {
	s := &Snapshot{
		Entities:    make(map[string]EntityMetrics, len(r.Entities)),
		Email:       r.Email,
		Calendar:    r.Calendar,
		Health:      r.Health,
		Alerts:      r.Alerts,
		LastUpdated: r.LastUpdated,
	}
	for code, re := range r.Entities {
		m := DefaultMetrics()
		if re.HealthScore != nil {
			m.HealthScore = clamp(*re.HealthScore, 0, 100)
		}
		if re.PendingItems != nil && *re.PendingItems > 0 {
			m.PendingItems = *re.PendingItems
		}
		if re.Status != nil && *re.Status != "" {
			m.Status = *re.Status
		}
		if re.RecentActivity != nil && *re.RecentActivity != "" {
			m.RecentActivity = *re.RecentActivity
		}
		s.Entities[code] = m
	}
	return s
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Loader reads snapshots from a well-known path.
type Loader struct {
	Path string
}

// Load reads the snapshot file. A missing file is the expected steady state
// before the first external update and returns (nil, nil). A present but
// unreadable or unparseable file returns (nil, err); callers log the error
// and carry on with a nil snapshot, so both cases render identically.
func (l *Loader) Load() (*Snapshot, error) {
	data, err := os.ReadFile(l.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", l.Path, err)
	}
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", l.Path, err)
	}
	return raw.normalize(), nil
}
