package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/futable/internal/catalog"
	"github.com/abhisek/futable/internal/router"
	"github.com/abhisek/futable/internal/screen"
	"github.com/abhisek/futable/internal/ui/components"
	"github.com/abhisek/futable/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	phase1End    = 400 * time.Millisecond
	phase2End    = 1200 * time.Millisecond
	totalDur     = 2000 * time.Millisecond
)

type tickMsg time.Time

// WelcomeScreen shows a splash animation before transitioning to the
// table screen.
type WelcomeScreen struct {
	next         func() screen.Screen
	offline      bool
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced
// by next. offline adds a note that sample content is being served.
func New(next func() screen.Screen, offline bool) *WelcomeScreen {
	return &WelcomeScreen{
		next:    next,
		offline: offline,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	var sections []string

	// Phase 1+: a sample element; after phase 1 it cycles through the
	// categories.
	all := catalog.All()
	tile := all[0]
	if w.elapsed >= phase1End {
		cats := catalog.AllCategories()
		cat := cats[w.tickCount/3%len(cats)]
		tile = catalog.ByCategory(cat)[0]
	}
	sections = append(sections, components.RenderElement(tile, false, components.ElementFull))

	// Phase 2+: banner and tagline
	if w.elapsed >= phase2End {
		sections = append(sections, "")
		sections = append(sections, RenderBanner(width))
		sections = append(sections, "")

		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("期货元素周期表 · 零基础也能看懂")
		sections = append(sections, tagline)

		if w.offline {
			sections = append(sections, theme.Hint.Render("离线模式：未配置 API Key，将显示示例内容"))
		}
	}

	// "press any key" hint
	if w.elapsed >= totalDur {
		sections = append(sections, "")
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("按任意键开始")
		sections = append(sections, hint)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, strings.Split(strings.Join(sections, "\n"), "\n")...)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
