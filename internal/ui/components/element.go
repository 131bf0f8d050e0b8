package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/futable/internal/catalog"
	"github.com/abhisek/futable/internal/ui/theme"
)

// ElementWidth is the width of an element card.
const ElementWidth = 14

// ElementSize picks how much of a concept a cell shows.
type ElementSize int

const (
	// ElementFull is a bordered card with ordinal, symbol, name and
	// short description.
	ElementFull ElementSize = iota
	// ElementCompact drops the description.
	ElementCompact
	// ElementMini is a single unbordered line.
	ElementMini
)

// RenderElement draws one concept as a periodic-table cell.
func RenderElement(c catalog.Concept, selected bool, size ElementSize) string {
	col := theme.CategoryColor(c.Category)
	inner := ElementWidth - 2

	if size == ElementMini {
		text := truncate(fmt.Sprintf("%-2d %s %s", c.Ordinal, c.Symbol, c.Name), ElementWidth)
		style := lipgloss.NewStyle().Width(ElementWidth).Foreground(col)
		if selected {
			style = style.Background(col).Foreground(theme.BgDark).Bold(true)
		}
		return style.Render(text)
	}

	ordinal := lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("%d", c.Ordinal))
	symbol := lipgloss.NewStyle().Foreground(col).Bold(true).Width(inner).Align(lipgloss.Center).Render(c.Symbol)
	name := lipgloss.NewStyle().Foreground(theme.Text).Width(inner).Align(lipgloss.Center).Render(truncate(c.Name, inner))

	lines := []string{ordinal, symbol, name}
	if size == ElementFull {
		desc := lipgloss.NewStyle().Foreground(theme.TextDim).Width(inner).Align(lipgloss.Center).Render(truncate(c.ShortDesc, inner))
		lines = append(lines, desc)
	}

	border := lipgloss.RoundedBorder()
	borderColor := col
	if selected {
		border = lipgloss.ThickBorder()
		borderColor = theme.Text
	}
	return lipgloss.NewStyle().
		Width(ElementWidth).
		Border(border).
		BorderForeground(borderColor).
		Render(strings.Join(lines, "\n"))
}

// ElementHeight returns the rendered height of a cell of the given size.
func ElementHeight(size ElementSize) int {
	sample := catalog.Concept{Ordinal: 1, Symbol: "Fu", Name: "x", ShortDesc: "x", Category: catalog.CategoryBasic}
	return lipgloss.Height(RenderElement(sample, false, size))
}

// RenderLegend lists every category with its colour swatch.
func RenderLegend() string {
	parts := make([]string, 0, len(catalog.AllCategories()))
	for _, cat := range catalog.AllCategories() {
		swatch := lipgloss.NewStyle().Foreground(theme.CategoryColor(cat)).Render("■")
		label := lipgloss.NewStyle().Foreground(theme.TextDim).Render(catalog.CategoryDisplayName(cat))
		parts = append(parts, swatch+" "+label)
	}
	return strings.Join(parts, "   ")
}

// truncate shortens s to at most width display cells.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes)+"…") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "…"
}
