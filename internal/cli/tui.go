package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/spore/pkg/core/spore"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listOverlapStyle  = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// InspectModel - Step through the checkpoints of a run
// =============================================================================

// InspectModel is the bubbletea model for stepping through recorded
// checkpoints. Left/right move between checkpoints; up/down scroll the node
// table of the current one.
type InspectModel struct {
	Checkpoints []spore.Checkpoint
	Step        int
	Cursor      int
	Offset      int
	Height      int
}

// NewInspectModel creates a model positioned at the first checkpoint.
func NewInspectModel(cps []spore.Checkpoint) InspectModel {
	return InspectModel{Checkpoints: cps, Height: 15}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l", "n", " ":
			m.goTo(m.Step + 1)
		case "left", "h", "p":
			m.goTo(m.Step - 1)
		case "home", "g":
			m.goTo(0)
		case "end", "G":
			m.goTo(len(m.Checkpoints) - 1)
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < m.nodeCount()-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// goTo moves to checkpoint i, clamped to the recorded range. The node
// cursor is kept when it is still in range.
func (m *InspectModel) goTo(i int) {
	if len(m.Checkpoints) == 0 {
		return
	}
	m.Step = max(0, min(i, len(m.Checkpoints)-1))
	if n := m.nodeCount(); m.Cursor >= n {
		m.Cursor = max(0, n-1)
		m.Offset = max(0, m.Cursor-m.Height+1)
	}
}

// Current returns the checkpoint being shown.
func (m InspectModel) Current() (spore.Checkpoint, bool) {
	if len(m.Checkpoints) == 0 {
		return spore.Checkpoint{}, false
	}
	return m.Checkpoints[m.Step], true
}

func (m InspectModel) nodeCount() int {
	cp, ok := m.Current()
	if !ok {
		return 0
	}
	return len(cp.Refs)
}

func (m InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Inspect Run"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ step  ↑/↓ scroll  home/end jump  q quit"))
	b.WriteString("\n\n")

	cp, ok := m.Current()
	if !ok {
		b.WriteString(listDimStyle.Render("No checkpoints recorded"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(summaryLine(cp))
	b.WriteString("\n\n")

	overlapping := make(map[int]bool, 2*len(cp.Overlaps))
	for _, e := range cp.Overlaps {
		overlapping[e.U] = true
		overlapping[e.V] = true
	}
	parent := make(map[int]int, len(cp.Tree))
	for _, e := range cp.Tree {
		parent[e[1]] = e[0]
	}

	end := min(m.Offset+m.Height, len(cp.Refs))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		r := cp.Rects[i]
		up := "—"
		if p, ok := parent[i]; ok {
			up = cp.Refs[p]
		}
		rows = append(rows, []string{
			cursor,
			cp.Refs[i],
			fmt.Sprintf("%.1f", r.X),
			fmt.Sprintf("%.1f", r.Y),
			fmt.Sprintf("%.1f", r.W),
			fmt.Sprintf("%.1f", r.H),
			up,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Node", "X", "Y", "W", "H", "Parent").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor:
				return listSelectedStyle
			case overlapping[idx]:
				return listOverlapStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Step+1, len(m.Checkpoints))))

	return b.String()
}

// summaryLine describes a checkpoint on one line.
func summaryLine(cp spore.Checkpoint) string {
	parts := []string{
		StyleHighlight.Render(string(cp.Phase)),
		fmt.Sprintf("pass %d", cp.Iteration+1),
		fmt.Sprintf("%d nodes", len(cp.Refs)),
	}
	if cp.Algorithm != "" {
		parts = append([]string{StyleValue.Render(string(cp.Algorithm))}, parts...)
	}
	if n := len(cp.Overlaps); n > 0 {
		parts = append(parts, StyleWarning.Render(fmt.Sprintf("%d overlaps", n)))
	}
	if n := len(cp.Edges); n > 0 {
		parts = append(parts, fmt.Sprintf("%d structure edges", n))
	}
	if n := len(cp.Tree); n > 0 {
		parts = append(parts, fmt.Sprintf("%d tree edges, %d roots", n, len(cp.Roots)))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
