package center

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"command-center/internal/config"
	"command-center/internal/graph"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries an activity line for the viewport.
type logMsg struct{ line string }

// statusMsg carries one entity status update.
type statusMsg struct{ StatusRow }

// summaryMsg carries the per-refresh summary.
type summaryMsg struct{ SummaryRow }

// alertMsg carries an alert line and row data.
type alertMsg struct {
	line string
	row  AlertRow
}

// webMsg reports web UI status.
type webMsg struct{ active bool }

type setCommandMsg struct{ fn func(string) }
type setActionMsg struct{ fn func(config.QuickAction) }
type clockMsg time.Time

const (
	maxSectionHeightPct = 0.2
	maxLogLines         = 1000
)

// TUIWriter renders the command center using a bubbletea TUI.
type TUIWriter struct {
	program    teaProgram
	done       chan struct{}
	sendSignal atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(cfg *config.CenterConfig) *TUIWriter {
	w := &TUIWriter{done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(cfg)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

// WriteStatus implements StatusWriter.
func (w *TUIWriter) WriteStatus(row StatusRow) error {
	statusColor := colorGreen
	if row.Status != "Active" {
		statusColor = colorRed
	}
	line := fmt.Sprintf("%s[%s]%s %s%s%s %shealth=%d%s %spending=%d%s %s%s%s %s%s%s",
		colorGray, row.Timestamp.Format("15:04:05"), colorReset,
		colorCyan, row.Code, colorReset,
		healthTier(row.Health), row.Health, colorReset,
		colorYellow, row.Pending, colorReset,
		statusColor, row.Status, colorReset,
		colorGray, row.RecentActivity, colorReset,
	)
	w.program.Send(logMsg{line: line})
	w.program.Send(statusMsg{row})
	return nil
}

// WriteStatuses outputs multiple status rows.
func (w *TUIWriter) WriteStatuses(rows []StatusRow) error {
	for _, r := range rows {
		_ = w.WriteStatus(r)
	}
	return nil
}

// WriteSummary implements SummaryWriter.
func (w *TUIWriter) WriteSummary(row SummaryRow) error {
	w.program.Send(summaryMsg{row})
	return nil
}

// WriteAlert implements AlertWriter.
func (w *TUIWriter) WriteAlert(row AlertRow) error {
	line := fmt.Sprintf("%s[%s]%s %sALERT%s %s%s/%s%s %s",
		colorGray, row.Timestamp.Format("15:04:05"), colorReset,
		colorRed, colorReset,
		colorMagenta, row.Type, row.Severity, colorReset,
		row.Message,
	)
	w.program.Send(alertMsg{line: line, row: row})
	return nil
}

// WriteAlerts outputs multiple alert rows.
func (w *TUIWriter) WriteAlerts(rows []AlertRow) error {
	for _, r := range rows {
		_ = w.WriteAlert(r)
	}
	return nil
}

// SetWebStatus updates the web UI indicator.
func (w *TUIWriter) SetWebStatus(active bool) {
	w.program.Send(webMsg{active: active})
}

// SetCommandSender registers the dispatcher call for free-text commands.
// The call runs off the UI loop and its outcome lands in the activity log.
func (w *TUIWriter) SetCommandSender(send func(string) (map[string]any, error)) {
	w.program.Send(setCommandMsg{fn: func(text string) {
		go func() {
			if _, err := send(text); err != nil {
				w.program.Send(logMsg{line: fmt.Sprintf("%scommand failed:%s %v", colorRed, colorReset, err)})
				return
			}
			w.program.Send(logMsg{line: fmt.Sprintf("%scommand sent:%s %s", colorGreen, colorReset, text)})
		}()
	}})
}

// SetActionRunner registers the dispatcher call for quick actions.
func (w *TUIWriter) SetActionRunner(run func(config.QuickAction) (map[string]any, error)) {
	w.program.Send(setActionMsg{fn: func(a config.QuickAction) {
		go func() {
			if _, err := run(a); err != nil {
				w.program.Send(logMsg{line: fmt.Sprintf("%s%s failed:%s %v", colorRed, a.Label, colorReset, err)})
				return
			}
			w.program.Send(logMsg{line: fmt.Sprintf("%s%s triggered%s", colorGreen, a.Label, colorReset)})
		}()
	}})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00D4FF")).
			Padding(0, 1)
	cardLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D4FF")).Bold(true)
	windowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF94")).Bold(true)
)

type tuiModel struct {
	cfg        *config.CenterConfig
	table      table.Model
	vp         viewport.Model
	alertVP    viewport.Model
	logs       []string
	alertLogs  []string
	statuses   map[string]StatusRow
	summary    SummaryRow
	haveRows   bool
	selected   string
	showMap    bool
	web        bool
	wrap       bool
	autoscroll bool
	help       bool
	cmdMode    bool
	cmdInput   textinput.Model
	now        time.Time
	height     int
	width      int
	send       func(string)
	action     func(config.QuickAction)
}

func newTUIModel(cfg *config.CenterConfig) tuiModel {
	cols := []table.Column{
		{Title: "Code", Width: 6},
		{Title: "Name", Width: 22},
		{Title: "Location", Width: 8},
		{Title: "Health", Width: 6},
		{Title: "Pending", Width: 7},
		{Title: "Status", Width: 10},
	}
	t := table.New(table.WithColumns(cols), table.WithHeight(len(cfg.Entities)+1), table.WithFocused(true))
	return tuiModel{
		cfg:        cfg,
		table:      t,
		vp:         viewport.New(0, 0),
		alertVP:    viewport.New(0, 0),
		statuses:   make(map[string]StatusRow),
		autoscroll: true,
		now:        time.Now(),
	}
}

func clockTick() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg { return clockMsg(t) })
}

func (m tuiModel) Init() tea.Cmd { return clockTick() }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.vp.Width = msg.Width
		m.alertVP.Width = msg.Width
		m.table.SetWidth(msg.Width)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshAlerts()
	case clockMsg:
		m.now = time.Time(msg)
		return m, clockTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > maxLogLines {
			m.logs = m.logs[len(m.logs)-maxLogLines:]
		}
		m.refreshViewport()
	case alertMsg:
		m.alertLogs = append(m.alertLogs, msg.line)
		if len(m.alertLogs) > maxLogLines {
			m.alertLogs = m.alertLogs[len(m.alertLogs)-maxLogLines:]
		}
		m.updateViewportHeight()
		m.refreshAlerts()
	case statusMsg:
		m.statuses[msg.Code] = msg.StatusRow
		m.haveRows = true
		m.refreshTable()
	case summaryMsg:
		m.summary = msg.SummaryRow
		m.now = time.Now()
	case webMsg:
		m.web = msg.active
	case setCommandMsg:
		m.send = msg.fn
	case setActionMsg:
		m.action = msg.fn
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.cmdMode {
		switch msg.Type {
		case tea.KeyEnter:
			text := strings.TrimSpace(m.cmdInput.Value())
			if text != "" && m.send != nil {
				m.send(text)
			}
			m.cmdMode = false
			m.updateViewportHeight()
		case tea.KeyEsc:
			m.cmdMode = false
			m.updateViewportHeight()
		default:
			var cmd tea.Cmd
			m.cmdInput, cmd = m.cmdInput.Update(msg)
			return m, cmd
		}
		return m, nil
	}
	if m.help {
		switch msg.String() {
		case "?", "h", "esc":
			m.help = false
			m.updateViewportHeight()
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "c":
		m.cmdInput = textinput.New()
		m.cmdInput.Placeholder = "e.g. 'Message Richard about harvest'"
		m.cmdInput.Focus()
		m.cmdMode = true
		m.updateViewportHeight()
		return m, nil
	case "u":
		m.showMap = !m.showMap
		m.updateViewportHeight()
		return m, nil
	case "enter":
		if row := m.table.SelectedRow(); row != nil {
			m.selected = row[0]
			m.updateViewportHeight()
		}
		return m, nil
	case "o", "esc":
		m.selected = ""
		m.updateViewportHeight()
		return m, nil
	case "w":
		m.wrap = !m.wrap
		m.refreshViewport()
		return m, nil
	case "s":
		m.autoscroll = !m.autoscroll
		if m.autoscroll {
			m.vp.GotoBottom()
			m.alertVP.GotoBottom()
		}
		return m, nil
	case "h", "?":
		m.help = !m.help
		return m, nil
	}
	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		if n := int(s[0] - '0'); n <= len(m.cfg.QuickActions) && m.action != nil {
			m.action(m.cfg.QuickActions[n-1])
		}
		return m, nil
	}
	if !m.autoscroll {
		switch msg.String() {
		case "j", "down":
			m.vp.LineDown(1)
			m.alertVP.LineDown(1)
		case "k", "up":
			m.vp.LineUp(1)
			m.alertVP.LineUp(1)
		case "pgdown", "ctrl+n":
			m.vp.LineDown(10)
			m.alertVP.LineDown(10)
		case "pgup", "ctrl+p":
			m.vp.LineUp(10)
			m.alertVP.LineUp(10)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m *tuiModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.cfg.Entities))
	for _, e := range m.cfg.Entities {
		s, ok := m.statuses[e.Code]
		if !ok {
			continue
		}
		rows = append(rows, table.Row{
			s.Code, s.Name, s.Location,
			fmt.Sprintf("%d%%", s.Health),
			fmt.Sprintf("%d", s.Pending),
			s.Status,
		})
	}
	m.table.SetRows(rows)
}

func (m *tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m *tuiModel) updateViewportHeight() {
	headerHeight := lipgloss.Height(m.renderCards())
	bottomHeight := lipgloss.Height(m.renderBottom())
	bodyHeight := m.table.Height() + 1
	if m.showMap {
		bodyHeight = m.mapHeight() + 1
	}
	orbitHeight := 0
	if m.selected != "" {
		orbitHeight = lipgloss.Height(m.renderOrbit())
	}
	cmdHeight := 0
	if m.cmdMode {
		cmdHeight = 1
	}

	alertLines := len(m.alertLogs)
	if alertLines == 0 {
		alertLines = 1
	}
	if max := m.maxSectionLines(); alertLines > max {
		alertLines = max
	}
	m.alertVP.Height = alertLines

	h := m.height - headerHeight - bottomHeight - bodyHeight - orbitHeight - cmdHeight - m.alertVP.Height - 6
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.vp.GotoBottom()
		m.alertVP.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshAlerts() {
	content := "none"
	if len(m.alertLogs) > 0 {
		content = strings.Join(m.alertLogs, "\n")
	}
	m.alertVP.SetContent(content)
	if m.autoscroll {
		m.alertVP.GotoBottom()
	}
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	divider := strings.Repeat("─", max(m.width, 1))
	body := m.table.View()
	if m.showMap {
		body = m.renderUniverse()
	}
	sections := []string{
		m.renderCards(),
		divider,
		body,
	}
	if m.selected != "" {
		sections = append(sections, divider, m.renderOrbit())
	}
	sections = append(sections,
		divider,
		"Activity:",
		m.vp.View(),
		divider,
		"Alerts:",
		m.alertVP.View(),
	)
	if m.cmdMode {
		sections = append(sections, fmt.Sprintf("Command - Enter to send, Esc to cancel: %s", m.cmdInput.View()))
	}
	sections = append(sections, divider, m.renderBottom())
	return strings.Join(sections, "\n")
}

func card(label, value string) string {
	return cardStyle.Render(fmt.Sprintf("%s\n%s", cardLabelStyle.Render(label), cardValueStyle.Render(value)))
}

// kenyaTime and cstTime mirror the two offices: EAT is UTC+3, Minneapolis
// CST is UTC-6.
func kenyaTime(now time.Time) string {
	return now.UTC().Add(3 * time.Hour).Format("03:04 PM")
}

func cstTime(now time.Time) string {
	return now.UTC().Add(-6 * time.Hour).Format("03:04 PM")
}

// kenyaWindow reports whether it is 6-9 AM CST, the best slot for calling
// the farm team (3-6 PM in Kenya).
func kenyaWindow(now time.Time) bool {
	h := now.UTC().Add(-6 * time.Hour).Hour()
	return h >= 6 && h < 9
}

func (m tuiModel) renderCards() string {
	placeholder := func(v int) string {
		if !m.haveRows {
			return "--"
		}
		return fmt.Sprintf("%d", v)
	}
	cards := []string{
		card("Emails", placeholder(m.summary.UnreadEmails)),
		card("Events", placeholder(m.summary.EventsToday)),
		card("Tasks", placeholder(m.summary.PendingTasks)),
		card("Alerts", placeholder(m.summary.AlertCount)),
		card("Minneapolis", cstTime(m.now)),
		card("Kenya", kenyaTime(m.now)),
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	if kenyaWindow(m.now) {
		row = lipgloss.JoinVertical(lipgloss.Left, row, windowStyle.Render("KENYA WINDOW ACTIVE - best time to call the farm team"))
	}
	return row
}

func (m tuiModel) mapHeight() int {
	h := m.height / 3
	if h < 9 {
		h = 9
	}
	return h
}

// renderUniverse draws the constellation as a character grid: the core in
// the center, entities on an ellipse in registry order, hub rays to each,
// and peer links between same-location pairs (regulated entities excluded
// from USA pairs, matching the graph builder).
func (m tuiModel) renderUniverse() string {
	width := max(m.width, 20)
	height := m.mapHeight()
	grid := make([][]string, height)
	for i := range grid {
		row := make([]string, width)
		for j := range row {
			row[j] = " "
		}
		grid[i] = row
	}

	cx, cy := width/2, height/2
	rx, ry := float64(width)*0.35, float64(height)*0.38

	n := len(m.cfg.Entities)
	pos := make(map[string][2]int, n)
	for i, e := range m.cfg.Entities {
		angle := 2 * math.Pi * float64(i) / float64(n)
		x := cx + int(math.Cos(angle)*rx)
		y := cy + int(math.Sin(angle)*ry)
		pos[e.Code] = [2]int{x, y}
	}

	ray := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("·")
	drawLine := func(x0, y0, x1, y1 int, ch string) {
		steps := max(abs(x1-x0), abs(y1-y0))
		for s := 1; s < steps; s++ {
			x := x0 + (x1-x0)*s/steps
			y := y0 + (y1-y0)*s/steps
			if y >= 0 && y < height && x >= 0 && x < width && grid[y][x] == " " {
				grid[y][x] = ch
			}
		}
	}

	for _, e := range m.cfg.Entities {
		p := pos[e.Code]
		drawLine(cx, cy, p[0], p[1], ray)
	}
	peer := func(list []config.Entity, color string) {
		link := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("∙")
		for i, a := range list {
			for _, b := range list[i+1:] {
				pa, pb := pos[a.Code], pos[b.Code]
				drawLine(pa[0], pa[1], pb[0], pb[1], link)
			}
		}
	}
	var kenya, usa []config.Entity
	for _, e := range m.cfg.Entities {
		switch {
		case e.Location == config.LocationKenya:
			kenya = append(kenya, e)
		case e.Location == config.LocationUSA && !e.Regulated:
			usa = append(usa, e)
		}
	}
	peer(kenya, "#00FF94")
	peer(usa, "#FF0055")

	if cy >= 0 && cy < height && cx >= 0 && cx < width {
		grid[cy][cx] = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D4FF")).Bold(true).Render("◉")
	}
	for _, e := range m.cfg.Entities {
		p := pos[e.Code]
		if p[1] < 0 || p[1] >= height || p[0] < 0 || p[0] >= width {
			continue
		}
		health := 80
		if s, ok := m.statuses[e.Code]; ok {
			health = s.Health
		}
		sym := "○"
		switch {
		case health >= 80:
			sym = "◉"
		case health >= 60:
			sym = "●"
		}
		grid[p[1]][p[0]] = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render(sym)
		label := e.Code
		lx := p[0] + 2
		if p[0] > cx {
			lx = p[0] + 2
		} else {
			lx = p[0] - len(label) - 2
		}
		for i, r := range label {
			if lx+i >= 0 && lx+i < width {
				grid[p[1]][lx+i] = lipgloss.NewStyle().Foreground(lipgloss.Color(e.Color)).Render(string(r))
			}
		}
	}

	var b strings.Builder
	b.WriteString("GANDI Universe  ◉=healthy ●=fair ○=poor  green∙=Kenya link red∙=USA link\n")
	for _, row := range grid {
		b.WriteString(strings.Join(row, ""))
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderOrbit() string {
	ent, ok := m.cfg.Entity(m.selected)
	if !ok {
		return ""
	}
	s, have := m.statuses[ent.Code]
	if !have {
		s = StatusRow{Code: ent.Code, Name: ent.Name, Health: 80, Status: "Active", RecentActivity: "No recent activity"}
	}
	dot := func(hex string) string {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
	}
	title := lipgloss.NewStyle().Foreground(lipgloss.Color(ent.Color)).Bold(true).
		Render(fmt.Sprintf("%s %s (%s) Orbit", ent.Icon, ent.Name, ent.Code))
	lines := []string{
		title,
		fmt.Sprintf(" %s Health  %d%%", dot(graph.HealthColor(s.Health)), s.Health),
		fmt.Sprintf(" %s Pending %d", dot(graph.PendingColor(s.Pending)), s.Pending),
		fmt.Sprintf(" %s Status  %s", dot(graph.StatusColor(s.Status)), s.Status),
		fmt.Sprintf("   Recent: %s", s.RecentActivity),
	}
	if ent.Regulated {
		lines = append(lines, lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")).
			Render("   Regulated: restricted data is processed locally only"))
	}
	return strings.Join(lines, "\n")
}

func (m tuiModel) renderBottom() string {
	indicator := func(on bool) string {
		c := lipgloss.Color("9")
		if on {
			c = lipgloss.Color("10")
		}
		return lipgloss.NewStyle().Foreground(c).Render("●")
	}
	state := fmt.Sprintf("%sSNAPSHOT%s %s%s%s %supdated=%s%s",
		colorBlue, colorReset,
		colorCyan, m.summary.SnapshotState, colorReset,
		colorGray, m.summary.LastUpdated, colorReset)
	var actions []string
	for i, a := range m.cfg.QuickActions {
		actions = append(actions, fmt.Sprintf("%d:%s", i+1, a.Label))
	}
	line := fmt.Sprintf("%s | Web %s | Wrap %s | Scroll %s | c:command u:universe enter:orbit h:help | %s",
		state, indicator(m.web), indicator(m.wrap), indicator(m.autoscroll), strings.Join(actions, " "))
	return line
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q    quit",
		" c    open the command bar (Enter sends, Esc cancels)",
		" u    toggle the universe constellation view",
		" enter orbit view for the selected entity",
		" o/esc close orbit view",
		" 1-9  trigger a quick action",
		" w    toggle wrap for the activity log",
		" s    toggle auto-scroll",
		" h/?  toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
