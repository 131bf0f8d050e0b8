package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{79, 24, true},
		{80, 23, true},
		{200, 60, false},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestIsCompactHeight(t *testing.T) {
	if !IsCompactHeight(CompactHeightThreshold - 1) {
		t.Error("height below threshold should be compact")
	}
	if IsCompactHeight(CompactHeightThreshold) {
		t.Error("height at threshold should not be compact")
	}
}

func TestRenderHeader(t *testing.T) {
	h := RenderHeader("元素表", "离线模式", 100)
	for _, want := range []string{"期货元素周期表", "元素表", "离线模式"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
}

func TestRenderFrame_FillsHeight(t *testing.T) {
	header := RenderHeader("t", "", 80)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "退出"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)
	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
}

func TestRenderFooter_DropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "P", Description: "听/停解说"},
		{Key: "←→", Description: "切换元素"},
		{Key: "Esc", Description: "返回"},
		{Key: "Ctrl+C", Description: "退出"},
	}
	wide := RenderFooter(hints, 120)
	if !strings.Contains(wide, "退出") {
		t.Fatal("wide footer should show every hint")
	}

	narrow := RenderFooter(hints, 30)
	if strings.Contains(narrow, "退出") {
		t.Error("narrow footer should drop trailing hints")
	}
	if !strings.Contains(narrow, "听/停解说") {
		t.Error("narrow footer should keep the first hint")
	}
	if got := lipgloss.Height(narrow); got != 3 {
		t.Errorf("footer height = %d, want 3", got)
	}
}

func TestRenderMinSizeMessage(t *testing.T) {
	msg := RenderMinSizeMessage(40, 10)
	if !strings.Contains(msg, "40 x 10") {
		t.Errorf("message should report current size: %q", msg)
	}
}
