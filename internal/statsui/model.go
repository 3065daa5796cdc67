// Package statsui provides the Bubble Tea usage dashboard.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/profile"
	"github.com/verte-zerg/saytui/internal/speech"
	"github.com/verte-zerg/saytui/internal/stats"
)

const (
	tabOverview = iota
	tabHistory
	tabVocabulary
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Model implements the Bubble Tea usage dashboard.
type Model struct {
	stats   *stats.Store
	prefs   *speech.Prefs
	profile *profile.Store

	tabs      []string
	activeTab int
	viewports []viewport.Model
	history   table.Model

	filterMode  bool
	filterInput textinput.Model
	filter      string

	width  int
	height int
}

// NewModel constructs a dashboard over already loaded stores.
func NewModel(st *stats.Store, prefs *speech.Prefs, prof *profile.Store) *Model {
	m := &Model{
		stats:   st,
		prefs:   prefs,
		profile: prof,
		tabs:    []string{"Overview", "History", "Vocabulary"},
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.filterInput = textinput.New()
	m.filterInput.Prompt = "Filter: "
	m.filterInput.Cursor.SetMode(cursor.CursorBlink)
	m.history = table.New(
		table.WithColumns(historyColumns(80)),
		table.WithHeight(1),
	)
	m.history.SetStyles(historyTableStyles())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "/":
			if m.activeTab != tabHistory {
				return m, nil
			}
			m.filterMode = true
			m.filterInput.SetValue(m.filter)
			return m, m.filterInput.Focus()
		case "g", "home":
			if m.activeTab == tabHistory {
				m.history.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.history.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabHistory {
				m.history, cmd = m.history.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.filterMode = false
		m.filterInput.Blur()
		return m, nil
	case tea.KeyEnter:
		m.filterMode = false
		m.filterInput.Blur()
		m.filter = strings.TrimSpace(m.filterInput.Value())
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = max(1, lipgloss.Height(activeNavStyle.Render("X")))
	footerHeight = 1
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.history.SetColumns(historyColumns(m.width))
	m.history.SetWidth(m.width)
	m.history.SetHeight(max(1, bodyHeight-1))
	m.filterInput.Width = max(10, m.width-lipgloss.Width(m.filterInput.Prompt)-2)
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabHistory {
		m.history.Focus()
	} else {
		m.history.Blur()
	}
}

func (m *Model) refresh() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.stats.State(), width))
	m.viewports[tabVocabulary].SetContent(renderVocabulary(m.profile.Usage(), width))
	m.history.SetRows(historyRows(m.prefs.History(), m.filter))
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody() string {
	if m.activeTab != tabHistory {
		return m.viewports[m.activeTab].View()
	}
	if len(m.history.Rows()) == 0 {
		if m.filter != "" {
			return fmt.Sprintf("Nothing spoken matches %q.", m.filter)
		}
		return "Nothing spoken yet."
	}
	return tableMutedStyle.Render(m.history.View())
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return m.filterInput.View()
	}
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	if m.activeTab == tabHistory {
		help = "Nav: left/right  Scroll: up/down  Filter: /  Quit: q"
		if m.filter != "" {
			help += fmt.Sprintf("  (filter %q)", m.filter)
		}
	}
	return headerStyle.Render(truncateLine(help, m.width))
}

func renderOverview(st model.StatsState, width int) string {
	cards := []string{
		metricCard("Visits", fmt.Sprintf("%d", st.Visits)),
		metricCard("Spoken", fmt.Sprintf("%d", st.SpeechGenerations)),
		metricCard("Characters", fmt.Sprintf("%d", st.TotalCharactersSpoken)),
		metricCard("Shortcuts", fmt.Sprintf("%d", st.KeyboardShortcutsUsed)),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	if err := stats.PlotBars(&buf, stats.CounterBars(st), width, true); err != nil {
		return summary + "\n\n" + fmt.Sprintf("Failed to render counters: %v", err)
	}
	return strings.TrimRight(summary+"\n\n"+buf.String(), "\n")
}

func renderVocabulary(usage profile.Usage, width int) string {
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Conversions", fmt.Sprintf("%d", usage.TotalConversions)),
		metricCard("Characters", fmt.Sprintf("%d", usage.TotalCharacters)),
		metricCard("Favorites", fmt.Sprintf("%d", usage.FavoritesCount)),
	)
	lines := []string{
		cards,
		headerStyle.Render("Languages: " + orNone(strings.Join(usage.LanguagesUsed.Sorted(), ", "))),
		"",
		headerStyle.Render(fmt.Sprintf("Unique words (%d)", len(usage.UniqueWords))),
		wrapWords(usage.UniqueWords.Sorted(), width),
	}
	return strings.Join(lines, "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func historyColumns(width int) []table.Column {
	const whenWidth, voiceWidth = 16, 10
	return []table.Column{
		{Title: "When", Width: whenWidth},
		{Title: "Voice", Width: voiceWidth},
		{Title: "Text", Width: max(10, width-whenWidth-voiceWidth-4)},
	}
}

func historyRows(entries []model.HistoryEntry, filter string) []table.Row {
	needle := strings.ToLower(filter)
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		if needle != "" && !strings.Contains(strings.ToLower(e.Text), needle) {
			continue
		}
		rows = append(rows, table.Row{
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			orNone(e.Voice),
			strings.Join(strings.Fields(e.Text), " "),
		})
	}
	return rows
}

func historyTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func wrapWords(words []string, width int) string {
	if len(words) == 0 {
		return "none"
	}
	var b strings.Builder
	lineWidth := 0
	for _, w := range words {
		ww := lipgloss.Width(w)
		if lineWidth > 0 && lineWidth+1+ww > width {
			b.WriteByte('\n')
			lineWidth = 0
		} else if lineWidth > 0 {
			b.WriteByte(' ')
			lineWidth++
		}
		b.WriteString(w)
		lineWidth += ww
	}
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
