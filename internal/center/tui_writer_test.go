package center

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"command-center/internal/config"
)

type stubProgram struct {
	msgs chan tea.Msg
}

func newStubProgram() *stubProgram {
	return &stubProgram{msgs: make(chan tea.Msg, 64)}
}

func (s *stubProgram) Send(msg tea.Msg) { s.msgs <- msg }

func (s *stubProgram) next(t *testing.T) tea.Msg {
	t.Helper()
	select {
	case m := <-s.msgs:
		return m
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func stubTUIWriter() (*TUIWriter, *stubProgram) {
	p := newStubProgram()
	done := make(chan struct{})
	close(done)
	return &TUIWriter{program: p, done: done}, p
}

func TestTUIWriterStatusMessages(t *testing.T) {
	w, p := stubTUIWriter()

	row := StatusRow{Code: "AFK", Health: 92, Status: "Active", Timestamp: time.Now()}
	if err := w.WriteStatus(row); err != nil {
		t.Fatal(err)
	}

	if _, ok := p.next(t).(logMsg); !ok {
		t.Fatal("first message should be the activity log line")
	}
	sm, ok := p.next(t).(statusMsg)
	if !ok {
		t.Fatal("second message should be the status update")
	}
	if sm.Code != "AFK" || sm.Health != 92 {
		t.Errorf("status message mismatch: %+v", sm.StatusRow)
	}
}

func TestTUIWriterSummaryAndAlert(t *testing.T) {
	w, p := stubTUIWriter()

	if err := w.WriteSummary(SummaryRow{UnreadEmails: 5}); err != nil {
		t.Fatal(err)
	}
	if sm, ok := p.next(t).(summaryMsg); !ok || sm.UnreadEmails != 5 {
		t.Errorf("unexpected summary message: %#v", sm)
	}

	if err := w.WriteAlert(AlertRow{Type: "email", Severity: "high", Message: "x"}); err != nil {
		t.Fatal(err)
	}
	am, ok := p.next(t).(alertMsg)
	if !ok {
		t.Fatal("expected alert message")
	}
	if am.row.Severity != "high" || !strings.Contains(am.line, "ALERT") {
		t.Errorf("alert message mismatch: %#v", am)
	}
}

func TestTUIWriterWebStatus(t *testing.T) {
	w, p := stubTUIWriter()
	w.SetWebStatus(true)
	if wm, ok := p.next(t).(webMsg); !ok || !wm.active {
		t.Errorf("unexpected web message: %#v", wm)
	}
}

func TestTUIWriterCommandSender(t *testing.T) {
	w, p := stubTUIWriter()

	called := make(chan string, 1)
	w.SetCommandSender(func(text string) (map[string]any, error) {
		called <- text
		return map[string]any{"status": "ok"}, nil
	})

	sm, ok := p.next(t).(setCommandMsg)
	if !ok {
		t.Fatal("expected setCommandMsg")
	}
	sm.fn("check the farm")

	select {
	case got := <-called:
		if got != "check the farm" {
			t.Errorf("dispatcher received %q", got)
		}
	case <-time.After(time.Second):
		t.Fatal("dispatcher was not called")
	}
	if lm, ok := p.next(t).(logMsg); !ok || !strings.Contains(lm.line, "command sent") {
		t.Errorf("expected success log line, got %#v", lm)
	}
}

func TestTUIWriterClose(t *testing.T) {
	w, p := stubTUIWriter()
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if w.sendSignal.Load() {
		t.Error("close must suppress the interrupt signal")
	}
	if _, ok := p.next(t).(tea.QuitMsg); !ok {
		t.Error("close should send quit to the program")
	}
}

func tuiTestConfig() *config.CenterConfig {
	return &config.CenterConfig{
		Entities: []config.Entity{
			{Code: "AFK", Name: "Afro Farm Kenya", Icon: "🌾", Color: "#00FF94", Location: "Kenya"},
			{Code: "COMF", Name: "Compliance First", Icon: "🏥", Color: "#FF0055", Location: "USA", Regulated: true},
		},
		QuickActions: []config.QuickAction{
			{Name: "morning_briefing", Label: "Briefing", Endpoint: "morning-briefing"},
		},
	}
}

func updateModel(t *testing.T, m tuiModel, msg tea.Msg) tuiModel {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(tuiModel)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return nm
}

func TestTUIModelStatusUpdatesTable(t *testing.T) {
	m := newTUIModel(tuiTestConfig())
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updateModel(t, m, statusMsg{StatusRow{Code: "AFK", Name: "Afro Farm Kenya", Location: "Kenya", Health: 92, Status: "Active"}})

	rows := m.table.Rows()
	if len(rows) != 1 {
		t.Fatalf("expected 1 table row, got %d", len(rows))
	}
	if rows[0][0] != "AFK" || rows[0][3] != "92%" {
		t.Errorf("table row mismatch: %v", rows[0])
	}
}

func TestTUIModelOrbitPanel(t *testing.T) {
	m := newTUIModel(tuiTestConfig())
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updateModel(t, m, statusMsg{StatusRow{Code: "COMF", Name: "Compliance First", Health: 55, Pending: 2, Status: "Active", RecentActivity: "Audit prep"}})
	m.selected = "COMF"

	panel := m.renderOrbit()
	if !strings.Contains(panel, "Compliance First") {
		t.Errorf("orbit panel missing entity name: %q", panel)
	}
	if !strings.Contains(panel, "55%") || !strings.Contains(panel, "Audit prep") {
		t.Errorf("orbit panel missing status details: %q", panel)
	}
	if !strings.Contains(panel, "Regulated") {
		t.Error("orbit panel should mention the regulated restriction")
	}
}

func TestTUIModelUniverseView(t *testing.T) {
	m := newTUIModel(tuiTestConfig())
	m = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	m.showMap = true

	out := m.renderUniverse()
	for _, code := range []string{"AFK", "COMF"} {
		if !strings.Contains(out, code) {
			t.Errorf("constellation missing entity %s", code)
		}
	}
}

func TestTUIModelQuickActionKey(t *testing.T) {
	m := newTUIModel(tuiTestConfig())
	triggered := make(chan string, 1)
	m = updateModel(t, m, setActionMsg{fn: func(a config.QuickAction) { triggered <- a.Name }})
	m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})

	select {
	case name := <-triggered:
		if name != "morning_briefing" {
			t.Errorf("wrong action triggered: %s", name)
		}
	default:
		t.Fatal("quick action key did not trigger the action")
	}
}

func TestKenyaWindow(t *testing.T) {
	// 12:00 UTC is 6 AM CST, the window opens.
	open := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	if !kenyaWindow(open) {
		t.Error("6 AM CST should be inside the window")
	}
	// 15:00 UTC is 9 AM CST, the window has closed.
	closed := time.Date(2026, 8, 25, 15, 0, 0, 0, time.UTC)
	if kenyaWindow(closed) {
		t.Error("9 AM CST should be outside the window")
	}
	if got := kenyaTime(open); got != "03:00 PM" {
		t.Errorf("kenya clock wrong: %q", got)
	}
	if got := cstTime(open); got != "06:00 AM" {
		t.Errorf("minneapolis clock wrong: %q", got)
	}
}
