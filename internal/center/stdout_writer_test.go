package center

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"command-center/internal/config"
)

func TestStdoutWriterJSONMode(t *testing.T) {
	var buf bytes.Buffer
	w := &StdoutWriter{out: &buf, colorize: false}

	row := StatusRow{Code: "AFK", Health: 92, Pending: 2, Status: "Active", Timestamp: time.Now()}
	if err := w.WriteStatus(row); err != nil {
		t.Fatal(err)
	}

	var decoded StatusRow
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not one JSON object per line: %v", err)
	}
	if decoded.Code != "AFK" || decoded.Health != 92 {
		t.Errorf("roundtrip mismatch: %+v", decoded)
	}
	if strings.Contains(buf.String(), "\x1b[") {
		t.Error("JSON mode must not emit ANSI escapes")
	}
}

func TestStdoutWriterColorized(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.CenterConfig{
		Entities: []config.Entity{
			{Code: "AFK", Name: "Afro Farm Kenya", Location: "Kenya"},
		},
		SnapshotPath: "data/live_data.json",
	}
	w := &StdoutWriter{cfg: cfg, out: &buf, colorize: true}

	row := StatusRow{Code: "AFK", Location: "Kenya", Health: 92, Status: "Active", Timestamp: time.Now()}
	if err := w.WriteStatus(row); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteStatus(row); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if !strings.Contains(out, "\x1b[") {
		t.Error("colorized mode should emit ANSI escapes")
	}
	if got := strings.Count(out, "Command Center Configuration:"); got != 1 {
		t.Errorf("overview should print exactly once, got %d", got)
	}
	if !strings.Contains(out, "health=92") {
		t.Errorf("missing health field in output: %q", out)
	}
}

func TestStdoutWriterRegulatedMarker(t *testing.T) {
	var buf bytes.Buffer
	w := &StdoutWriter{cfg: &config.CenterConfig{}, out: &buf, colorize: true}

	row := StatusRow{Code: "COMF", Regulated: true, Health: 80, Status: "Active", Timestamp: time.Now()}
	if err := w.WriteStatus(row); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "regulated") {
		t.Error("regulated entities should be marked")
	}
}

func TestStdoutWriterSummaryAndAlert(t *testing.T) {
	var buf bytes.Buffer
	w := &StdoutWriter{cfg: &config.CenterConfig{}, out: &buf, colorize: true}

	sum := SummaryRow{UnreadEmails: 3, EventsToday: 1, PendingTasks: 2, AlertCount: 1, SnapshotState: SnapshotOK, Timestamp: time.Now()}
	if err := w.WriteSummary(sum); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "SUMMARY") || !strings.Contains(buf.String(), "emails=3") {
		t.Errorf("summary line missing fields: %q", buf.String())
	}

	buf.Reset()
	alert := AlertRow{Type: "email", Severity: "high", Message: "Overdue invoice", Timestamp: time.Now()}
	if err := w.WriteAlert(alert); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "ALERT") || !strings.Contains(buf.String(), "Overdue invoice") {
		t.Errorf("alert line missing fields: %q", buf.String())
	}
}

func TestHealthTier(t *testing.T) {
	cases := []struct {
		health int
		want   string
	}{
		{100, colorGreen},
		{80, colorGreen},
		{79, colorYellow},
		{60, colorYellow},
		{59, colorRed},
		{0, colorRed},
	}
	for _, c := range cases {
		if got := healthTier(c.health); got != c.want {
			t.Errorf("healthTier(%d) = %q, want %q", c.health, got, c.want)
		}
	}
}
