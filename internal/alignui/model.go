// Package alignui provides the Bubble Tea alignment browser.
package alignui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aklabib/cswer/internal/align"
	"github.com/aklabib/cswer/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle  = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	errorMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea alignment browser.
type Model struct {
	alignedRefs [][]align.Entry
	alignedHyps [][]align.Entry

	current  int
	viewport viewport.Model

	width  int
	height int
}

// NewModel constructs an alignment browser over expanded streams.
func NewModel(alignedRefs, alignedHyps [][]align.Entry) *Model {
	m := &Model{
		alignedRefs: alignedRefs,
		alignedHyps: alignedHyps,
		viewport:    viewport.New(0, 0),
	}
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
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h", "p":
			m.moveSentence(-1)
			return m, nil
		case "right", "l", "n":
			m.moveSentence(1)
			return m, nil
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
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
	header := m.renderHeader()
	footer := m.renderFooter()
	return strings.Join([]string{header, m.viewport.View(), footer}, "\n")
}

func (m *Model) updateLayout() {
	headerHeight := lipgloss.Height(m.renderHeader())
	footerHeight := 1
	bodyHeight := m.height - headerHeight - footerHeight - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = bodyHeight
	m.refreshContent()
}

func (m *Model) moveSentence(delta int) {
	count := len(m.alignedRefs)
	if count == 0 {
		return
	}
	next := m.current + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.current = next
	m.refreshContent()
	m.viewport.GotoTop()
}

func (m *Model) refreshContent() {
	if len(m.alignedRefs) == 0 {
		m.viewport.SetContent("No sentences to show.")
		return
	}
	view := render.VisualizeSentence(m.alignedRefs[m.current], m.alignedHyps[m.current])
	m.viewport.SetContent(view)
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("Sentence %d/%d", m.current+1, len(m.alignedRefs)))
	summary := headerStyle.Render(m.sentenceSummary())
	return title + "\n" + summary
}

func (m *Model) sentenceSummary() string {
	if len(m.alignedRefs) == 0 {
		return ""
	}
	var sub, del, ins int
	for _, entry := range m.alignedRefs[m.current] {
		switch entry.Op {
		case align.OpSubstitute:
			sub++
		case align.OpDelete:
			del++
		case align.OpInsert:
			ins++
		}
	}
	summary := fmt.Sprintf("sub=%d  del=%d  ins=%d", sub, del, ins)
	if sub+del+ins > 0 {
		return errorMarkStyle.Render(summary)
	}
	return summary
}

func (m *Model) renderFooter() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down  Top/Bottom: g/G  Quit: q")
}
