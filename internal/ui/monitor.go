package ui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/wizlocal/internal/protocol"
)

// PushMsg carries one inbound message into the Monitor. Send it with
// tea.Program.Send from the listener callback.
type PushMsg struct {
	Msg protocol.Inbound
	IP  string
}

// refreshDoneMsg reports the outcome of a refresh request
type refreshDoneMsg struct{ err error }

// LightRow is the monitor's view of one light
type LightRow struct {
	IP       string
	MAC      string
	State    string
	Mode     string
	Dimming  string
	Rssi     string
	LastSeen time.Time
	Pushes   int
}

type monitorKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Clear   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func (k monitorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Clear, k.Help, k.Quit}
}

func (k monitorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Refresh, k.Clear},
		{k.Help, k.Quit},
	}
}

// Monitor is a bubbletea model listing each light's last push
type Monitor struct {
	Interface string
	Refresh   func() error

	rows   map[string]*LightRow
	table  table.Model
	help   help.Model
	keys   monitorKeyMap
	status string
	other  int
	width  int
	now    func() time.Time
}

var monitorColumns = []table.Column{
	{Title: "IP", Width: 15},
	{Title: "MAC", Width: 12},
	{Title: "State", Width: 5},
	{Title: "Mode", Width: 22},
	{Title: "Dim", Width: 4},
	{Title: "RSSI", Width: 5},
	{Title: "Pushes", Width: 6},
	{Title: "Last seen", Width: 9},
}

// NewMonitor creates a monitor. refresh is called when the user presses r
// and may be nil.
func NewMonitor(iface string, refresh func() error) Monitor {
	t := table.New(
		table.WithColumns(monitorColumns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(MutedColor).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("0")).
		Background(LightColor)
	t.SetStyles(s)

	return Monitor{
		Interface: iface,
		Refresh:   refresh,
		rows:      make(map[string]*LightRow),
		table:     t,
		help:      help.New(),
		keys: monitorKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "down"),
			),
			Refresh: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "re-register"),
			),
			Clear: key.NewBinding(
				key.WithKeys("c"),
				key.WithHelp("c", "clear"),
			),
			Help: key.NewBinding(
				key.WithKeys("?"),
				key.WithHelp("?", "help"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
		status: "Waiting for lights...",
		now:    time.Now,
	}
}

// Init implements tea.Model
func (m Monitor) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Monitor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		h := msg.Height - 8
		if h < 3 {
			h = 3
		}
		m.table.SetHeight(h)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Clear):
			m.rows = make(map[string]*LightRow)
			m.other = 0
			m.status = "Cleared"
			m.syncTable()
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if m.Refresh == nil {
				return m, nil
			}
			m.status = "Re-registering..."
			refresh := m.Refresh
			return m, func() tea.Msg {
				return refreshDoneMsg{err: refresh()}
			}
		}

	case refreshDoneMsg:
		if msg.err != nil {
			m.status = "Re-register failed: " + msg.err.Error()
		} else {
			m.status = "Re-registered at " + m.now().Format("15:04:05")
		}
		return m, nil

	case PushMsg:
		m.apply(msg)
		m.syncTable()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// apply folds one inbound message into the rows. The maps are shared
// between model copies, which is fine since bubbletea runs Update on one
// goroutine.
func (m *Monitor) apply(p PushMsg) {
	switch msg := p.Msg.(type) {
	case *protocol.SyncPilot:
		row := m.row(p.IP)
		params := msg.Params
		row.MAC = params.Mac
		row.State = "off"
		if params.IsOn() {
			row.State = "on"
		}
		row.Mode = params.Mode()
		row.Dimming = optionalInt(params.Dimming, "%")
		row.Rssi = optionalInt(params.Rssi, "")
		row.Pushes++
		m.status = "syncPilot from " + p.IP
	case *protocol.FirstBeat:
		row := m.row(p.IP)
		row.MAC = msg.Params.Mac
		row.State = "boot"
		m.status = "firstBeat from " + p.IP
	default:
		m.other++
		m.status = fmt.Sprintf("%s from %s", methodOrUnknown(p.Msg), p.IP)
	}
}

func (m *Monitor) row(ip string) *LightRow {
	row, ok := m.rows[ip]
	if !ok {
		row = &LightRow{IP: ip, State: "?", Mode: "-"}
		m.rows[ip] = row
	}
	row.LastSeen = m.now()
	return row
}

func (m *Monitor) syncTable() {
	ips := make([]string, 0, len(m.rows))
	for ip := range m.rows {
		ips = append(ips, ip)
	}
	sort.Strings(ips)

	now := m.now()
	rows := make([]table.Row, 0, len(ips))
	for _, ip := range ips {
		r := m.rows[ip]
		rows = append(rows, table.Row{
			r.IP,
			r.MAC,
			r.State,
			r.Mode,
			r.Dimming,
			r.Rssi,
			strconv.Itoa(r.Pushes),
			formatAge(now.Sub(r.LastSeen)),
		})
	}
	m.table.SetRows(rows)
}

// Rows returns the current light rows sorted by IP
func (m Monitor) Rows() []LightRow {
	out := make([]LightRow, 0, len(m.rows))
	for _, r := range m.rows {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IP < out[j].IP })
	return out
}

// View implements tea.Model
func (m Monitor) View() string {
	var b strings.Builder

	title := MonitorTitleStyle.Render("wizlocal monitor")
	sub := MonitorSubtitleStyle.Render(fmt.Sprintf("  %d lights  %d other messages", len(m.rows), m.other))
	if m.Interface != "" {
		sub += MonitorSubtitleStyle.Render("  iface " + m.Interface)
	}
	b.WriteString(title + sub + "\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n\n")
	b.WriteString(MonitorStatusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func optionalInt(v *int, suffix string) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v) + suffix
}

func methodOrUnknown(msg protocol.Inbound) string {
	if msg == nil || msg.MethodName() == "" {
		return "unknown message"
	}
	return msg.MethodName()
}

func formatAge(d time.Duration) string {
	switch {
	case d < time.Second:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}
