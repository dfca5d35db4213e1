package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/n0roo/tag-kit/internal/config"
	"github.com/n0roo/tag-kit/internal/db"
	"github.com/n0roo/tag-kit/internal/history"
	"github.com/n0roo/tag-kit/internal/store"
	"github.com/n0roo/tag-kit/internal/tag"
)

// Tab represents a browser tab
type Tab int

const (
	TabOverview Tab = iota
	TabTags
	TabHistory
)

func (t Tab) String() string {
	return []string{"Overview", "Tags", "History"}[t]
}

// tagInfo is one tag with its record, loaded for display
type tagInfo struct {
	Name   string
	Record tag.Record
}

// Model is the main TUI model
type Model struct {
	// Config
	root string

	// State
	currentTab  Tab
	cursor      int
	width       int
	height      int
	ready       bool
	lastRefresh time.Time
	err         error

	// Data
	tags   []tagInfo
	events []history.Event

	// Components
	spinner spinner.Model
}

// tickMsg is sent periodically to refresh data
type tickMsg time.Time

// dataMsg carries refreshed data
type dataMsg struct {
	tags   []tagInfo
	events []history.Event
	err    error
}

// NewModel creates a new TUI model
func NewModel(root string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(accentColor)

	return Model{
		root:       root,
		currentTab: TabOverview,
		spinner:    s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.refreshData,
		tickEvery(5*time.Second),
	)
}

// tickEvery returns a command that ticks every duration
func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshData fetches fresh data
func (m Model) refreshData() tea.Msg {
	var data dataMsg

	tags, cleanup, err := openTags(m.root)
	if err != nil {
		data.err = err
		return data
	}
	defer cleanup()

	names, err := tags.List()
	if err != nil {
		data.err = err
		return data
	}
	for _, name := range names {
		rec, err := tags.Load(name)
		if err != nil {
			continue
		}
		data.tags = append(data.tags, tagInfo{Name: name, Record: rec})
	}

	// The journal database may not exist yet; that leaves history empty.
	if database, err := db.Open(config.DBPath(m.root)); err == nil {
		defer database.Close()
		if events, err := history.NewService(database).List(history.Filter{Limit: 30}); err == nil {
			data.events = events
		}
	}

	return data
}

// openTags opens the record store the config selects
func openTags(root string) (store.TagStore, func(), error) {
	cfg, err := config.Load(root)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Backend == config.BackendSQLite {
		database, err := db.Open(config.DBPath(root))
		if err != nil {
			return nil, nil, err
		}
		return store.NewSQLiteStore(database), func() { database.Close() }, nil
	}
	return store.NewFileStore(config.TagsDir(root)), func() {}, nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "1":
			m.currentTab = TabOverview
		case "2":
			m.currentTab = TabTags
		case "3":
			m.currentTab = TabHistory
		case "r":
			return m, m.refreshData
		case "tab":
			m.currentTab = Tab((int(m.currentTab) + 1) % 3)
		case "shift+tab":
			m.currentTab = Tab((int(m.currentTab) + 2) % 3)
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tags)-1 {
				m.cursor++
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case tickMsg:
		return m, tea.Batch(
			m.refreshData,
			tickEvery(5*time.Second),
		)

	case dataMsg:
		m.tags = msg.tags
		m.events = msg.events
		m.err = msg.err
		m.lastRefresh = time.Now()
		if m.cursor >= len(m.tags) {
			m.cursor = 0
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "\n  Loading..."
	}

	var b strings.Builder

	// Header
	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	// Tabs
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	// Content
	if m.err != nil {
		b.WriteString(dangerStyle.Render(fmt.Sprintf("  Error: %v", m.err)))
	} else {
		switch m.currentTab {
		case TabOverview:
			b.WriteString(m.renderOverviewTab())
		case TabTags:
			b.WriteString(m.renderTagsTab())
		case TabHistory:
			b.WriteString(m.renderHistoryTab())
		}
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	title := "🏷  tagkit browser"
	refresh := fmt.Sprintf("Last refresh: %s", m.lastRefresh.Format("15:04:05"))

	headerWidth := m.width
	if headerWidth < 60 {
		headerWidth = 60
	}

	left := lipgloss.NewStyle().Bold(true).Render(title)
	right := lipgloss.NewStyle().Foreground(dimColor).Render(refresh)

	gap := headerWidth - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 0 {
		gap = 0
	}

	return bannerStyle.
		Width(headerWidth).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderTabs() string {
	var tabs []string
	for i := 0; i < 3; i++ {
		tab := Tab(i)
		style := tabIdleStyle
		if tab == m.currentTab {
			style = tabActiveStyle
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("[%d]%s", i+1, tab.String())))
	}
	return strings.Join(tabs, " ")
}

func (m Model) renderFooter() string {
	help := "  [1-3] Switch tabs  [Tab] Next  [↑/↓] Select  [r] Refresh  [q] Quit"
	return footerStyle.Render(help)
}

func (m Model) renderOverviewTab() string {
	var b strings.Builder

	// Tags summary
	paths := tag.StringSet{}
	edges := 0
	for _, info := range m.tags {
		paths.Extend(info.Record.Paths)
		edges += len(info.Record.IncludeTags) + len(info.Record.InheritedTags)
	}

	tagBox := panelStyle.Width(35).Render(
		headingStyle.Render("🏷  Tags") + "\n" +
			fmt.Sprintf("Tags:  %s\n", okStyle.Render(fmt.Sprintf("%d", len(m.tags)))) +
			fmt.Sprintf("Edges: %d", edges),
	)

	pathBox := panelStyle.Width(35).Render(
		headingStyle.Render("📁 Paths") + "\n" +
			fmt.Sprintf("Tagged: %s\n", okStyle.Render(fmt.Sprintf("%d", len(paths)))) +
			fmt.Sprintf("Events: %d", len(m.events)),
	)

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tagBox, "  ", pathBox))
	return b.String()
}

func (m Model) renderTagsTab() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("🏷  Tags"))
	b.WriteString("\n\n")

	if len(m.tags) == 0 {
		b.WriteString(dimStyle.Render("  No tags"))
		b.WriteString("\n\n")
		b.WriteString(noteStyle.Render("  Run: tagkit tag <paths> <tag>"))
		return b.String()
	}

	maxPaths := 1
	for _, info := range m.tags {
		if n := len(info.Record.Paths); n > maxPaths {
			maxPaths = n
		}
	}

	for i, info := range m.tags {
		n := len(info.Record.Paths)
		bar := pathBar(float64(n)/float64(maxPaths), 16)
		line := fmt.Sprintf("%-20s %s %3d path(s)", info.Name, bar, n)
		if i == m.cursor {
			b.WriteString(rowActiveStyle.Render(line))
		} else {
			b.WriteString(rowStyle.Render(line))
		}
		b.WriteString("\n")
	}

	// Detail for the selected tag
	if m.cursor < len(m.tags) {
		info := m.tags[m.cursor]
		b.WriteString("\n")
		b.WriteString(noteStyle.Render(fmt.Sprintf("  includes: %s", joinOrDash(info.Record.IncludeTags.Sorted()))))
		b.WriteString("\n")
		b.WriteString(noteStyle.Render(fmt.Sprintf("  inherits: %s", joinOrDash(info.Record.InheritedTags.Sorted()))))
	}

	return b.String()
}

func (m Model) renderHistoryTab() string {
	var b strings.Builder

	b.WriteString(headingStyle.Render("🕘 History"))
	b.WriteString("\n\n")

	if len(m.events) == 0 {
		b.WriteString(dimStyle.Render("  No events"))
		return b.String()
	}

	for _, e := range m.events {
		subject := e.Tag
		if subject == "" {
			subject = e.Path
		}
		stamp := dimStyle.Render(e.CreatedAt.Local().Format("01-02 15:04"))
		b.WriteString(fmt.Sprintf("  %s %s  %-6s %s\n", opGlyph(e.Op), stamp, e.Op, subject))
	}

	return b.String()
}

func joinOrDash(entries []string) string {
	if len(entries) == 0 {
		return "-"
	}
	return strings.Join(entries, ", ")
}

// Run starts the TUI
func Run(root string) error {
	p := tea.NewProgram(
		NewModel(root),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
