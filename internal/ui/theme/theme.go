// Package theme holds the lipgloss styles used by the chat client.
package theme

import (
	"fmt"

	"charm.land/lipgloss/v2"
)

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	Failure = lipgloss.NewStyle().
		Foreground(Error).
		Bold(true)
)

// Chat
var (
	Reply = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(0, 1)

	FailedReply = Reply.
			BorderForeground(Error)

	stateColors = map[string]lipgloss.Style{
		"waiting":        lipgloss.NewStyle().Foreground(TextDim),
		"intro":          lipgloss.NewStyle().Foreground(Secondary),
		"intro_analysis": lipgloss.NewStyle().Foreground(Accent),
		"questioning":    lipgloss.NewStyle().Foreground(Primary),
		"completed":      lipgloss.NewStyle().Foreground(Success),
	}
)

// StateBadge renders an interview state label.
func StateBadge(state string) string {
	style, ok := stateColors[state]
	if !ok {
		style = lipgloss.NewStyle().Foreground(Text)
	}
	return style.Bold(true).Render("[" + state + "]")
}

// Score colors an answer score by band.
func Score(score int) string {
	c := Error
	switch {
	case score >= 80:
		c = Success
	case score >= 60:
		c = Secondary
	case score >= 40:
		c = Accent
	}
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(fmt.Sprintf("%d/100", score))
}
