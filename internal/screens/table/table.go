// Package table renders the concept catalog as a periodic table, one
// column per category.
package table

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/futable/internal/catalog"
	"github.com/abhisek/futable/internal/router"
	"github.com/abhisek/futable/internal/screen"
	"github.com/abhisek/futable/internal/ui/components"
	"github.com/abhisek/futable/internal/ui/layout"
	"github.com/abhisek/futable/internal/ui/theme"
)

// DetailFactory builds the screen shown when a concept is selected.
type DetailFactory func(catalog.Concept) screen.Screen

type keyMap struct {
	Up, Down, Left, Right, Select key.Binding
}

var keys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "上")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "下")),
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "左")),
	Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "右")),
	Select: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("Enter", "查看")),
}

// TableScreen is the grid/selection view.
type TableScreen struct {
	columns [][]catalog.Concept
	col     int
	row     int
	detail  DetailFactory
}

var _ screen.Screen = (*TableScreen)(nil)

// New creates the table screen. detail is called on selection.
func New(detail DetailFactory) *TableScreen {
	var columns [][]catalog.Concept
	for _, cat := range catalog.AllCategories() {
		columns = append(columns, catalog.ByCategory(cat))
	}
	return &TableScreen{columns: columns, detail: detail}
}

func (s *TableScreen) Init() tea.Cmd {
	return nil
}

func (s *TableScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return s, nil
	}
	switch {
	case key.Matches(kmsg, keys.Up):
		s.row = max(s.row-1, 0)
	case key.Matches(kmsg, keys.Down):
		s.row = min(s.row+1, len(s.columns[s.col])-1)
	case key.Matches(kmsg, keys.Left):
		s.moveColumn(-1)
	case key.Matches(kmsg, keys.Right):
		s.moveColumn(1)
	case key.Matches(kmsg, keys.Select):
		return s, s.open()
	}
	return s, nil
}

// Selected returns the concept under the cursor.
func (s *TableScreen) Selected() catalog.Concept {
	return s.columns[s.col][s.row]
}

// Focus moves the cursor to the concept with the given ordinal.
func (s *TableScreen) Focus(ordinal int) {
	for ci, col := range s.columns {
		for ri, c := range col {
			if c.Ordinal == ordinal {
				s.col, s.row = ci, ri
				return
			}
		}
	}
}

func (s *TableScreen) moveColumn(delta int) {
	next := s.col + delta
	if next < 0 || next >= len(s.columns) {
		return
	}
	s.col = next
	s.row = min(s.row, len(s.columns[next])-1)
}

func (s *TableScreen) open() tea.Cmd {
	if s.detail == nil {
		return nil
	}
	next := s.detail(s.Selected())
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *TableScreen) View(width, height int) string {
	legend := components.RenderLegend()
	selected := s.Selected()
	caption := theme.Hint.Render(selected.Name + " · " + selected.ShortDesc)

	size := s.elementSize(height - lipgloss.Height(legend) - 4)

	cols := make([]string, len(s.columns))
	for ci, col := range s.columns {
		cells := []string{s.columnHeader(ci)}
		for ri, c := range col {
			cells = append(cells, components.RenderElement(c, ci == s.col && ri == s.row, size))
		}
		cols[ci] = lipgloss.JoinVertical(lipgloss.Left, cells...)
	}
	grid := lipgloss.JoinHorizontal(lipgloss.Top, interleave(cols, " ")...)

	body := strings.Join([]string{legend, "", grid, "", caption}, "\n")
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, body)
}

func (s *TableScreen) columnHeader(ci int) string {
	cat := s.columns[ci][0].Category
	return lipgloss.NewStyle().
		Width(components.ElementWidth).
		Foreground(theme.CategoryColor(cat)).
		Bold(true).
		Render(catalog.CategoryDisplayName(cat))
}

// elementSize picks the largest cell that lets the tallest column fit.
func (s *TableScreen) elementSize(avail int) components.ElementSize {
	tallest := 0
	for _, col := range s.columns {
		tallest = max(tallest, len(col))
	}
	for _, size := range []components.ElementSize{components.ElementFull, components.ElementCompact} {
		if 1+tallest*components.ElementHeight(size) <= avail {
			return size
		}
	}
	return components.ElementMini
}

func interleave(parts []string, sep string) []string {
	out := make([]string, 0, 2*len(parts))
	for i, p := range parts {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, p)
	}
	return out
}

func (s *TableScreen) Title() string {
	return "元素表"
}

// KeyHints returns the key binding hints for the footer.
func (s *TableScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "←↑↓→", Description: "选择"},
		{Key: "Enter", Description: "查看讲解"},
		{Key: "Ctrl+C", Description: "退出"},
	}
}
