// Package detail is the concept detail view. It drives the session
// controller and renders its snapshots.
package detail

import (
	"charm.land/bubbles/v2/key"
	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/futable/internal/catalog"
	sess "github.com/abhisek/futable/internal/detail"
	"github.com/abhisek/futable/internal/router"
	"github.com/abhisek/futable/internal/screen"
	"github.com/abhisek/futable/internal/ui/layout"
)

type keyMap struct {
	Audio, Prev, Next, Retry, Dismiss, Back key.Binding
}

var keys = keyMap{
	Audio:   key.NewBinding(key.WithKeys("p", "space"), key.WithHelp("P", "听/停解说")),
	Prev:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "上一个")),
	Next:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "下一个")),
	Retry:   key.NewBinding(key.WithKeys("r"), key.WithHelp("R", "重试")),
	Dismiss: key.NewBinding(key.WithKeys("x"), key.WithHelp("X", "关闭提示")),
	Back:    key.NewBinding(key.WithKeys("q"), key.WithHelp("Esc", "返回")),
}

// Credits names the models behind the view, shown in its footer line.
type Credits struct {
	ExplanationModel string
	SpeechModel      string
}

// DetailScreen shows one concept's explanation and audio controls.
type DetailScreen struct {
	ctrl    *sess.Controller
	concept catalog.Concept
	credits Credits

	snap     sess.Snapshot
	spinner  spinner.Model
	spinning bool
	closed   bool

	// onSwitch is told about neighbour navigation so the table cursor
	// follows.
	onSwitch func(catalog.Concept)
}

var (
	_ screen.Screen          = (*DetailScreen)(nil)
	_ screen.Closer          = (*DetailScreen)(nil)
	_ screen.KeyHintProvider = (*DetailScreen)(nil)
)

// New creates a detail screen for concept. The session opens on Init.
func New(ctrl *sess.Controller, concept catalog.Concept, credits Credits, onSwitch func(catalog.Concept)) *DetailScreen {
	return &DetailScreen{
		ctrl:     ctrl,
		concept:  concept,
		credits:  credits,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		onSwitch: onSwitch,
	}
}

func (s *DetailScreen) Init() tea.Cmd {
	s.snap = s.ctrl.Open(s.concept)
	return s.ensureSpinning()
}

// Close ends the session. The router calls it when the screen is popped.
func (s *DetailScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.ctrl.Close()
}

func (s *DetailScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ChangedMsg:
		s.refresh()
		return s, s.ensureSpinning()

	case spinner.TickMsg:
		if !s.busy() {
			s.spinning = false
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case tea.KeyPressMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *DetailScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Audio):
		s.ctrl.RequestAudio()
	case key.Matches(msg, keys.Prev):
		s.switchTo(catalog.Neighbor(s.concept.Ordinal, -1))
	case key.Matches(msg, keys.Next):
		s.switchTo(catalog.Neighbor(s.concept.Ordinal, 1))
	case key.Matches(msg, keys.Retry):
		if s.snap.Status != sess.ExplanationFailed {
			return nil
		}
		s.snap = s.ctrl.Open(s.concept)
	case key.Matches(msg, keys.Dismiss):
		s.ctrl.DismissAudioError()
	case key.Matches(msg, keys.Back):
		return func() tea.Msg { return router.PopScreenMsg{} }
	default:
		return nil
	}
	s.refresh()
	return s.ensureSpinning()
}

// switchTo replaces the session with one for c.
func (s *DetailScreen) switchTo(c catalog.Concept) {
	s.concept = c
	s.snap = s.ctrl.Open(c)
	if s.onSwitch != nil {
		s.onSwitch(c)
	}
}

// refresh re-reads the controller unless the snapshot belongs to a
// session this screen no longer shows.
func (s *DetailScreen) refresh() {
	if s.closed {
		return
	}
	s.snap = s.ctrl.State()
}

func (s *DetailScreen) busy() bool {
	return !s.closed && s.snap.Active && (s.snap.Status == sess.ExplanationPending || s.snap.Audio == sess.AudioLoading)
}

func (s *DetailScreen) ensureSpinning() tea.Cmd {
	if s.spinning || !s.busy() {
		return nil
	}
	s.spinning = true
	return s.spinner.Tick
}

func (s *DetailScreen) Title() string {
	return s.concept.Name
}

// KeyHints returns the key binding hints for the footer.
func (s *DetailScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{}
	if s.snap.Status == sess.ExplanationReady {
		hints = append(hints, hint(keys.Audio))
	}
	if s.snap.Status == sess.ExplanationFailed {
		hints = append(hints, hint(keys.Retry))
	}
	if s.snap.Audio == sess.AudioFailed {
		hints = append(hints, hint(keys.Dismiss))
	}
	return append(hints,
		layout.KeyHint{Key: "←→", Description: "切换元素"},
		hint(keys.Back),
	)
}

func hint(b key.Binding) layout.KeyHint {
	h := b.Help()
	return layout.KeyHint{Key: h.Key, Description: h.Desc}
}
