package main

import (
	"github.com/charmbracelet/lipgloss"

	"hn-scout/recency"
)

var (
	// Adaptive colors for dark/light terminals
	colorTitle  = lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#7571F9"}
	colorMeta   = lipgloss.AdaptiveColor{Light: "#9B9B9B", Dark: "#626262"}
	colorScore  = lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#25D366"}
	colorDomain = lipgloss.AdaptiveColor{Light: "#3D3D3D", Dark: "#ABABAB"}

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorTitle)

	metaStyle = lipgloss.NewStyle().
			Foreground(colorMeta)

	scoreStyle = lipgloss.NewStyle().
			Foreground(colorScore).
			Bold(true)

	domainStyle = lipgloss.NewStyle().
			Foreground(colorDomain)

	// One badge color per recency status.
	badgeStyles = map[recency.Status]lipgloss.Style{
		recency.Hot:      badge("#E05252"),
		recency.Trending: badge("#E0952E"),
		recency.Recent:   badge("#4A8FE0"),
		recency.Aging:    badge("#8A8A8A"),
		recency.Classic:  badge("#D8C24A"),
		recency.Viral:    badge("#9B59D0"),
		recency.Archive:  badge("#6E6E6E"),
	}
)

func badge(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(color)).
		Bold(true)
}

func renderBadge(info recency.Info) string {
	style, ok := badgeStyles[info.Status]
	if !ok {
		style = metaStyle
	}
	return style.Render(info.Icon + " " + info.Label)
}
