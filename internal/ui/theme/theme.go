package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/futable/internal/catalog"
)

// Color palette, dark slate base
var (
	Primary   = lipgloss.Color("#38BDF8") // Sky
	Secondary = lipgloss.Color("#10B981") // Emerald
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Category colours
var (
	CategoryBasic     = lipgloss.Color("#3B82F6") // Blue
	CategoryMechanism = lipgloss.Color("#10B981") // Emerald
	CategoryRisk      = lipgloss.Color("#F43F5E") // Rose
	CategoryStrategy  = lipgloss.Color("#8B5CF6") // Purple
	CategoryAsset     = lipgloss.Color("#F59E0B") // Amber
)

// CategoryColor returns the accent colour of a concept category.
func CategoryColor(c catalog.Category) color.Color {
	switch c {
	case catalog.CategoryBasic:
		return CategoryBasic
	case catalog.CategoryMechanism:
		return CategoryMechanism
	case catalog.CategoryRisk:
		return CategoryRisk
	case catalog.CategoryStrategy:
		return CategoryStrategy
	case catalog.CategoryAsset:
		return CategoryAsset
	}
	return Border
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	SectionLabel = lipgloss.NewStyle().
			Bold(true)
)

// Layout
var (
	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Components
var (
	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonBusy = lipgloss.NewStyle().
			Background(Border).
			Foreground(TextDim).
			Padding(0, 2)

	ButtonStop = lipgloss.NewStyle().
			Background(Error).
			Foreground(Text).
			Bold(true).
			Padding(0, 2)

	Alert = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Error).
		Foreground(Error).
		Padding(0, 1)
)
