// Package tui provides the BubbleTea-based live status view. It polls
// the daemon's control interface and renders the display registry with a
// detail drill-down.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/viewbridge/viewbridge/internal/config"
	"github.com/viewbridge/viewbridge/internal/ctl"
	"github.com/viewbridge/viewbridge/internal/display"
	"github.com/viewbridge/viewbridge/internal/video"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeHelp
)

// DefaultRefresh is the poll interval when the config leaves it unset.
const DefaultRefresh = time.Second

// Model is the main TUI model.
type Model struct {
	client  *ctl.Client
	refresh time.Duration

	// Current mode
	mode Mode

	// Components
	list     list.Model
	viewport viewport.Model

	// State
	displays     []display.Info
	resolution   video.Resolution
	version      string
	selected     string
	lastUpdated  time.Time
	connErr      string
	showKeybinds bool
	width        int
	height       int
	ready        bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool
}

// displayItem wraps a display row for the list component.
type displayItem struct {
	info display.Info
}

func (i displayItem) Title() string {
	return i.info.Name
}

func (i displayItem) Description() string {
	parts := []string{}
	if i.info.SourceID != "" {
		parts = append(parts, "source="+i.info.SourceID)
	} else {
		parts = append(parts, "mode="+i.info.Mode)
	}
	parts = append(parts, i.info.Rect.String())
	if !i.info.Interactive {
		parts = append(parts, "non-interactive")
	}
	if i.info.Tracking {
		parts = append(parts, "tracking")
	}
	if i.info.StyleBlocked {
		parts = append(parts, "style-blocked")
	}
	return strings.Join(parts, "  ")
}

func (i displayItem) FilterValue() string {
	return i.info.Name + " " + i.info.WindowID + " " + i.info.SourceID
}

// New creates a new TUI model.
func New(client *ctl.Client, cfg config.TUIConfig) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Displays"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	refresh := cfg.Refresh.Duration()
	if refresh <= 0 {
		refresh = DefaultRefresh
	}

	return Model{
		client:       client,
		refresh:      refresh,
		mode:         ModeList,
		list:         l,
		keys:         DefaultKeyMap(),
		showKeybinds: cfg.ShowHelp,
	}
}

// Init starts the first fetch and the poll timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchSnapshot, m.tick())
}

type tickMsg time.Time

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type snapshotMsg struct {
	displays   []display.Info
	resolution video.Resolution
	version    string
	err        error
}

// fetchSnapshot pulls the daemon state over the control interface.
func (m Model) fetchSnapshot() tea.Msg {
	displays, err := m.client.ListDisplays()
	if err != nil {
		return snapshotMsg{err: err}
	}
	resolution, err := m.client.BaseResolution()
	if err != nil {
		return snapshotMsg{err: err}
	}
	version, err := m.client.Version()
	if err != nil {
		return snapshotMsg{err: err}
	}
	return snapshotMsg{displays: displays, resolution: resolution, version: version}
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type destroyResultMsg struct {
	name string
	err  error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-3)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2

		return m, nil

	case tickMsg:
		return m, tea.Batch(m.fetchSnapshot, m.tick())

	case snapshotMsg:
		if msg.err != nil {
			m.connErr = msg.err.Error()
			return m, nil
		}
		m.connErr = ""
		m.displays = msg.displays
		m.resolution = msg.resolution
		m.version = msg.version
		m.lastUpdated = time.Now()
		m.list.SetItems(m.buildListItems())

		if m.mode == ModeDetail {
			if d, ok := m.findDisplay(m.selected); ok {
				m.viewport.SetContent(m.renderDetail(d))
			} else {
				m.mode = ModeList
				return m, func() tea.Msg {
					return statusMsg{text: "Display " + m.selected + " is gone", isErr: false}
				}
			}
		}
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case destroyResultMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: "Destroy failed: " + msg.err.Error(), isErr: true}
			}
		}
		return m, tea.Batch(m.fetchSnapshot, func() tea.Msg {
			return statusMsg{text: "Destroyed " + msg.name, isErr: false}
		})
	}

	// Update child components
	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModeDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetchSnapshot
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.list.SelectedItem().(displayItem); ok {
			m.selected = item.info.Name
			m.mode = ModeDetail
			m.viewport.SetContent(m.renderDetail(item.info))
			m.viewport.GotoTop()
		}
		return m, nil

	case key.Matches(msg, m.keys.Destroy):
		if item, ok := m.list.SelectedItem().(displayItem); ok {
			return m, m.destroyDisplay(item.info.Name)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// destroyDisplay destroys a display over the control interface.
func (m Model) destroyDisplay(name string) tea.Cmd {
	return func() tea.Msg {
		return destroyResultMsg{name: name, err: m.client.DestroyDisplay(name)}
	}
}

// buildListItems creates list items from the current snapshot.
func (m Model) buildListItems() []list.Item {
	items := make([]list.Item, len(m.displays))
	for i, d := range m.displays {
		items[i] = displayItem{info: d}
	}
	return items
}

func (m Model) findDisplay(name string) (display.Info, bool) {
	for _, d := range m.displays {
		if d.Name == name {
			return d, true
		}
	}
	return display.Info{}, false
}

// renderDetail renders the detail view for a display.
func (m Model) renderDetail(d display.Info) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var s string
	s += headerStyle.Render(d.Name) + "\n\n"

	if d.WindowID != "" {
		s += labelStyle.Render("Window: ") + d.WindowID + "\n"
	}
	if d.SourceID != "" {
		s += labelStyle.Render("Source: ") + d.SourceID + "\n"
	} else {
		s += labelStyle.Render("Mode: ") + d.Mode + "\n"
	}
	s += labelStyle.Render("Rect: ") + d.Rect.String() + "\n"
	s += labelStyle.Render("Interactive: ") + fmt.Sprintf("%v", d.Interactive) + "\n"
	s += labelStyle.Render("Tracking: ") + fmt.Sprintf("%v", d.Tracking) + "\n"
	s += labelStyle.Render("Style blocked: ") + fmt.Sprintf("%v", d.StyleBlocked) + "\n"
	if !d.CreatedAt.IsZero() {
		s += labelStyle.Render("Created: ") + humanize.Time(d.CreatedAt) + "\n"
	}

	return s
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Connecting..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	errStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9"))

	s := titleStyle.Render("viewbridge")
	if m.version != "" {
		s += " " + m.version
	}
	s += dimStyle.Render(fmt.Sprintf("  base %s  %d displays", m.resolution, len(m.displays)))
	if !m.lastUpdated.IsZero() {
		s += dimStyle.Render("  updated " + m.lastUpdated.Format("15:04:05"))
	}
	if m.connErr != "" {
		s += "  " + errStyle.Render("daemon unreachable")
	}
	return s
}

func (m Model) viewList() string {
	s := m.viewHeader() + "\n"
	s += m.list.View()

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else if m.showKeybinds {
		s += "\n" + m.buildKeybindBar("list")
	}

	return s
}

func (m Model) viewDetail() string {
	return m.viewHeader() + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar("detail")
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += sectionStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "   Move up/down\n"
	s += keyStyle.Render("  enter") + "       View display details\n"
	s += keyStyle.Render("  esc") + "         Back\n"
	s += "\n"

	s += sectionStyle.Render("Actions") + "\n"
	s += keyStyle.Render("  r") + "           Refresh now\n"
	s += keyStyle.Render("  D") + "           Destroy selected display\n"
	s += "\n"

	s += sectionStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "           Toggle this help\n"
	s += keyStyle.Render("  q") + "           Quit\n"

	s += "\n" + sectionStyle.Render("Press ? or esc to return")

	return s
}

// keybind represents a single keybind for the status bar.
type keybind struct {
	key  string
	desc string
}

// buildKeybindBar builds the keybind bar for the given mode, dropping
// entries that no longer fit the width.
func (m Model) buildKeybindBar(mode string) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind
	switch mode {
	case "list":
		binds = []keybind{
			{"q", "quit"},
			{"enter", "view"},
			{"?", "help"},
			{"D", "destroy"},
			{"r", "refresh"},
		}
	case "detail":
		binds = []keybind{
			{"q", "quit"},
			{"esc", "back"},
			{"j/k", "scroll"},
		}
	}

	const separator = "  "
	result := ""
	plainLen := 0
	for _, b := range binds {
		plainItem := b.key + " " + b.desc
		testLen := plainLen + len(plainItem)
		if result != "" {
			testLen += len(separator)
		}
		if m.width > 0 && testLen > m.width {
			break
		}
		if result != "" {
			result += separator
			plainLen += len(separator)
		}
		result += keyStyle.Render(b.key) + " " + b.desc
		plainLen += len(plainItem)
	}

	return style.Render(result)
}

// RunOptions configures the TUI.
type RunOptions struct {
	Client *ctl.Client
	Config config.TUIConfig
}

// Run starts the TUI and blocks until it exits.
func Run(opts RunOptions) error {
	m := New(opts.Client, opts.Config)
	p := tea.NewProgram(m, tea.WithAltScreen())

	_, err := p.Run()
	return err
}
