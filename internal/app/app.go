package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/futable/internal/catalog"
	sess "github.com/abhisek/futable/internal/detail"
	"github.com/abhisek/futable/internal/router"
	"github.com/abhisek/futable/internal/screen"
	"github.com/abhisek/futable/internal/screens/detail"
	"github.com/abhisek/futable/internal/screens/table"
	"github.com/abhisek/futable/internal/screens/welcome"
	"github.com/abhisek/futable/internal/ui/layout"
)

// Options wires the TUI to its collaborators.
type Options struct {
	Controller *sess.Controller
	Credits    detail.Credits

	// Status is shown on the right of the header, typically the
	// explanation model or an offline marker.
	Status string

	// Splash starts on the welcome animation instead of the table.
	Splash  bool
	Offline bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	ctrl   *sess.Controller
	status string
	width  int
	height int
}

// newAppModel creates a new AppModel with the table screen, behind the
// welcome splash when requested.
func newAppModel(opts Options) AppModel {
	var grid *table.TableScreen
	grid = table.New(func(c catalog.Concept) screen.Screen {
		return detail.New(opts.Controller, c, opts.Credits, func(next catalog.Concept) {
			grid.Focus(next.Ordinal)
		})
	})

	var initial screen.Screen = grid
	if opts.Splash {
		initial = welcome.New(func() screen.Screen { return grid }, opts.Offline)
	}
	return AppModel{
		router: router.New(initial),
		ctrl:   opts.Controller,
		status: opts.Status,
	}
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.waitForChange())
}

func (m AppModel) waitForChange() tea.Cmd {
	if m.ctrl == nil {
		return nil
	}
	return detail.WaitForChange(m.ctrl)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case detail.ChangedMsg:
		// Keep exactly one waiter outstanding.
		return m, tea.Batch(m.router.Update(msg), m.waitForChange())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	v.SetContent(m.render())
	return v
}

// render draws the full frame for the current terminal size.
func (m AppModel) render() string {
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "返回"},
			{Key: "Ctrl+C", Description: "退出"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// shutdown closes every open screen and waits for the controller's
// background work, which stops any playback.
func (m AppModel) shutdown() {
	m.router.CloseAll()
	if m.ctrl != nil {
		m.ctrl.Shutdown()
	}
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := newAppModel(opts)
	defer m.shutdown()

	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
