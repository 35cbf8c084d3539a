// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/scamtrap-tui/internal/model"
)

func TestNewTheme_ForcedBackground(t *testing.T) {
	assert.True(t, NewTheme(ThemeDark).IsDark)
	assert.False(t, NewTheme(ThemeLight).IsDark)
}

func TestTheme_LayoutMode(t *testing.T) {
	tests := []struct {
		width   int
		want    LayoutMode
		sidebar int
	}{
		{40, LayoutNarrow, 0},
		{59, LayoutNarrow, 0},
		{60, LayoutMedium, 28},
		{99, LayoutMedium, 28},
		{100, LayoutWide, 36},
		{200, LayoutWide, 36},
	}

	theme := NewTheme(ThemeDark)
	for _, tt := range tests {
		theme.SetSize(tt.width, 30)
		assert.Equal(t, tt.want, theme.GetLayoutMode(), "width %d", tt.width)
		assert.Equal(t, tt.sidebar, theme.SidebarWidth(), "width %d", tt.width)
	}
}

func TestTheme_EngineBadge(t *testing.T) {
	theme := NewTheme(ThemeDark)

	assert.Equal(t, theme.EngineHoneypot.GetBackground(), theme.EngineBadge(model.ModeHoneypot).GetBackground())
	assert.Equal(t, theme.EngineAssistant.GetBackground(), theme.EngineBadge(model.ModeAssistant).GetBackground())
}

func TestRenderHelpers_IncludeIndicators(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		want   string
	}{
		{"success", RenderSuccess, StatusIndicators.Success},
		{"error", RenderError, StatusIndicators.Error},
		{"warning", RenderWarning, StatusIndicators.Warning},
		{"info", RenderInfo, StatusIndicators.Info},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.render("exported")
			assert.True(t, strings.Contains(out, tt.want))
			assert.True(t, strings.Contains(out, "exported"))
		})
	}
}
