package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cobuy/pkg/core/graph"
	"github.com/matzehuels/cobuy/pkg/pipeline"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	listRelatedStyle  = lipgloss.NewStyle().Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	panelStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

func (c *CLI) exploreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "explore FILE",
		Short: "Browse products interactively",
		Long: `Browse products ranked by degree. Select one to see its metrics, its
related products and its relationship tree. Press / to search.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, a, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			defer runner.Close()

			p := tea.NewProgram(NewExploreModel(a),
				tea.WithContext(cmd.Context()),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}
}

// =============================================================================
// ExploreModel
// =============================================================================

// ExploreModel is the bubbletea model behind "cobuy explore". The list
// shows every product by descending degree, or the matches of the current
// query. Rows related to the selected product are highlighted.
type ExploreModel struct {
	Analysis *pipeline.Analysis

	// Rows is the visible list, ranked or filtered.
	Rows   []graph.Node
	Cursor int
	Offset int
	Height int

	// Query is the committed search; Typing is set while editing it.
	Query  string
	Typing bool

	// Selected is the product whose detail is shown, if any.
	Selected *pipeline.NodeDetail
	related  map[string]bool
}

// NewExploreModel creates an explorer over a.
func NewExploreModel(a *pipeline.Analysis) ExploreModel {
	m := ExploreModel{Analysis: a, Height: 15}
	m.Rows = m.rankedRows()
	return m
}

func (m ExploreModel) rankedRows() []graph.Node {
	ranked := m.Analysis.TopByDegree(m.Analysis.Graph.NodeCount())
	rows := make([]graph.Node, len(ranked))
	for i, r := range ranked {
		rows[i] = r.Node
	}
	return rows
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Typing {
			return m.updateQuery(msg), nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.Selected != nil {
				m.Selected, m.related = nil, nil
			} else if m.Query != "" {
				m.Query = ""
				m.Rows = m.rankedRows()
				m.Cursor, m.Offset = 0, 0
			}
		case "/":
			m.Typing = true
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "enter":
			m.selectCursor()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-14, 5)
		m.scrollToCursor()
	}
	return m, nil
}

func (m ExploreModel) updateQuery(msg tea.KeyMsg) ExploreModel {
	switch msg.Type {
	case tea.KeyEnter:
		m.Typing = false
		m.applyQuery()
	case tea.KeyEsc, tea.KeyCtrlC:
		m.Typing = false
	case tea.KeyBackspace:
		if r := []rune(m.Query); len(r) > 0 {
			m.Query = string(r[:len(r)-1])
		}
	case tea.KeyRunes, tea.KeySpace:
		m.Query += string(msg.Runes)
	}
	return m
}

func (m *ExploreModel) applyQuery() {
	if m.Query == "" {
		m.Rows = m.rankedRows()
	} else {
		m.Rows = m.Analysis.Index.FindAll(m.Query, 0)
	}
	m.Cursor, m.Offset = 0, 0
}

func (m *ExploreModel) move(delta int) {
	next := m.Cursor + delta
	if next < 0 || next >= len(m.Rows) {
		return
	}
	m.Cursor = next
	m.scrollToCursor()
}

// scrollToCursor adjusts Offset so the cursor row is visible without
// leaving empty rows below the last one.
func (m *ExploreModel) scrollToCursor() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	m.Offset = max(min(m.Offset, len(m.Rows)-m.Height), 0)
}

func (m *ExploreModel) selectCursor() {
	if len(m.Rows) == 0 {
		return
	}
	d, err := m.Analysis.Detail(m.Rows[m.Cursor].ID)
	if err != nil {
		return
	}
	m.Selected = &d
	m.related = make(map[string]bool, len(d.Related))
	for _, id := range d.Related {
		m.related[id] = true
	}
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Co-purchase explorer"))
	b.WriteString("  ")
	s := m.Analysis.Stats
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%d products · %d links · max degree %d · mean ecc %.1f",
		s.NodeCount, s.LinkCount, s.MaxDegree, s.MeanEccentricity)))
	b.WriteString("\n")

	switch {
	case m.Typing:
		b.WriteString("/" + m.Query + "█")
	case m.Query != "":
		b.WriteString(listDimStyle.Render(fmt.Sprintf("matches for %q · esc clears", m.Query)))
	default:
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  / search  esc back  q quit"))
	}
	b.WriteString("\n\n")

	if len(m.Rows) == 0 {
		b.WriteString(StyleWarning.Render("No products match."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.listView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	b.WriteString("\n")

	if m.Selected != nil {
		b.WriteString(m.detailView())
		b.WriteString("\n")
	}
	return b.String()
}

func (m ExploreModel) listView() string {
	end := min(m.Offset+m.Height, len(m.Rows))
	rows := make([][]string, 0, end-m.Offset)
	for i := m.Offset; i < end; i++ {
		n := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		nm := m.Analysis.Metrics[n.ID]
		rows = append(rows, []string{
			cursor, n.ID, truncate(n.Title, maxTitleWidth),
			strconv.Itoa(nm.Degree), strconv.Itoa(nm.Eccentricity),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Title", "Degree", "Ecc").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			idx := m.Offset + row
			if idx >= len(m.Rows) {
				return lipgloss.NewStyle()
			}
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case m.related[m.Rows[idx].ID]:
				return listRelatedStyle
			case m.Selected != nil && m.Rows[idx].ID == m.Selected.Node.ID:
				return listSelectedStyle.Foreground(colorCyan)
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func (m ExploreModel) detailView() string {
	d := m.Selected
	var b strings.Builder
	b.WriteString(StyleTitle.Render(d.Node.Title))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s  degree %d · eccentricity %d · rank %d of %d\n",
		StyleValue.Render(d.Node.ID), d.Degree, d.Eccentricity, d.Rank, m.Analysis.Stats.NodeCount)

	if tree, err := m.Analysis.Hierarchy(d.Node.ID, 0); err == nil {
		b.WriteString("\n")
		writeTree(&b, tree)
	}
	return panelStyle.Render(strings.TrimRight(b.String(), "\n"))
}
