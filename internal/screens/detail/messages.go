package detail

import (
	tea "charm.land/bubbletea/v2"

	sess "github.com/abhisek/futable/internal/detail"
)

// ChangedMsg reports that the session controller state moved on.
type ChangedMsg struct{}

// WaitForChange blocks until the controller signals a change. The root
// model re-issues it after every ChangedMsg, so one of these is always
// outstanding.
func WaitForChange(ctrl *sess.Controller) tea.Cmd {
	return func() tea.Msg {
		<-ctrl.Changed()
		return ChangedMsg{}
	}
}
