package detail

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/futable/internal/catalog"
	sess "github.com/abhisek/futable/internal/detail"
	"github.com/abhisek/futable/internal/explain"
	"github.com/abhisek/futable/internal/ui/components"
	"github.com/abhisek/futable/internal/ui/layout"
	"github.com/abhisek/futable/internal/ui/theme"
)

const (
	loadingText   = "AI 正在生成期货投教内容..."
	failedText    = "内容加载失败，请检查网络或 API Key。"
	audioFailText = "无法生成音频，请稍后再试。"

	labelListen  = "听AI解说"
	labelStop    = "停止解说"
	labelLoading = "生成语音中..."

	maxCardWidth = 72
)

func (s *DetailScreen) View(width, height int) string {
	cardWidth := min(width-4, maxCardWidth)
	inner := cardWidth - 6 // border and padding

	parts := []string{s.renderHeading(inner), ""}
	switch s.snap.Status {
	case sess.ExplanationPending:
		parts = append(parts, s.spinner.View()+" "+theme.Hint.Render(loadingText))
	case sess.ExplanationFailed:
		parts = append(parts, theme.Failure.Render(failedText))
	case sess.ExplanationReady:
		parts = append(parts, renderSections(s.snap.Explanation, inner, layout.IsCompactHeight(height))...)
		parts = append(parts, "", s.renderAudio(inner))
	}
	parts = append(parts, "", s.renderCredits())

	card := theme.Card.
		Width(cardWidth).
		BorderForeground(theme.CategoryColor(s.concept.Category)).
		Render(strings.Join(parts, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (s *DetailScreen) renderHeading(width int) string {
	c := s.concept
	accent := theme.CategoryColor(c.Category)
	symbol := lipgloss.NewStyle().
		Foreground(theme.BgDark).
		Background(accent).
		Bold(true).
		Padding(0, 1).
		Render(c.Symbol)
	name := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(c.Name)
	meta := theme.Hint.Render(fmt.Sprintf("#%d · %s", c.Ordinal, catalog.CategoryDisplayName(c.Category)))
	desc := lipgloss.NewStyle().Foreground(theme.TextDim).Width(width).Render(c.ShortDesc)
	return symbol + "  " + name + "  " + meta + "\n" + desc
}

// renderSections lays out the four explanation fields. compact drops the
// blank line between them.
func renderSections(e *explain.Explanation, width int, compact bool) []string {
	if e == nil {
		return nil
	}
	sections := []struct {
		label string
		body  string
		color color.Color
	}{
		{"核心定义", e.Definition, theme.Primary},
		{"形象比喻", e.Analogy, theme.Secondary},
		{"划重点", e.KeyPoint, theme.Accent},
		{"实战举例", e.Example, theme.TextDim},
	}
	body := theme.Body.Width(width)
	out := make([]string, 0, 3*len(sections))
	for i, sec := range sections {
		if i > 0 && !compact {
			out = append(out, "")
		}
		out = append(out,
			theme.SectionLabel.Foreground(sec.color).Render(sec.label),
			body.Render(sec.body),
		)
	}
	return out
}

func (s *DetailScreen) renderAudio(width int) string {
	var btn components.Button
	switch s.snap.Audio {
	case sess.AudioLoading:
		btn = components.NewButton(labelLoading, components.ButtonBusy)
		return s.spinner.View() + " " + btn.View()
	case sess.AudioPlaying:
		btn = components.NewButton(labelStop, components.ButtonStop)
	default:
		btn = components.NewButton(labelListen, components.ButtonReady)
	}
	line := btn.View()
	if s.snap.Audio == sess.AudioFailed {
		line += "\n\n" + components.RenderAlert(audioFailText, "X 关闭", width)
	}
	return line
}

func (s *DetailScreen) renderCredits() string {
	var names []string
	if m := s.credits.ExplanationModel; m != "" {
		names = append(names, "讲解 "+m)
	}
	if m := s.credits.SpeechModel; m != "" {
		names = append(names, "语音 "+m)
	}
	if len(names) == 0 {
		return ""
	}
	return theme.Hint.Render("Powered by " + strings.Join(names, " · "))
}
