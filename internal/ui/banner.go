package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const bannerArt = `
 ┌─┐┌─┐┌─┐┌┬┐┌┐ ┌─┐┌─┐┬┌─
 ├┤ ├┤ ├┤  ││├┴┐├─┤│  ├┴┐
 └  └─┘└─┘─┴┘└─┘┴ ┴└─┘┴ ┴`

const bannerSubtitle = "Tell us what you think"

// RenderBanner returns the styled banner with its subtitle and rule.
func RenderBanner() string {
	lines := splitLines(bannerArt)

	maxWidth := 0
	for _, line := range lines {
		if w := lipgloss.Width(line); w > maxWidth {
			maxWidth = w
		}
	}

	var rendered strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		rendered.WriteString(BannerStyle.Render(line) + "\n")
	}

	subtitleWidth := lipgloss.Width(bannerSubtitle)
	blockWidth := maxWidth
	if blockWidth < subtitleWidth {
		blockWidth = subtitleWidth
	}

	subtitle := lipgloss.NewStyle().
		Foreground(ColorMuted).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(bannerSubtitle)

	underline := lipgloss.NewStyle().
		Foreground(ColorBorder).
		Width(blockWidth).
		Align(lipgloss.Center).
		Render(strings.Repeat("─", subtitleWidth))

	return "\n" + rendered.String() + "\n" + subtitle + "\n" + underline + "\n"
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
