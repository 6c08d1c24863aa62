// Package tui implements the interactive terminal prompts for select,
// searchselect and multiselect blocks, plus markdown rendering for script
// documentation.
package tui

import "github.com/charmbracelet/lipgloss"

// Option glyphs convey state without relying on color alone.
const (
	GlyphCursor    = "▸"
	GlyphChecked   = "✓"
	GlyphUnchecked = "○"
	GlyphEllipsis  = "…"
	GlyphNoMatches = "✗"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
	colorWhite  = lipgloss.Color("255")
)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorCyan)

var nameBadgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("0")).
	Background(colorYellow).
	Padding(0, 1)

// --- Option list styles ---

var (
	optionNormal = lipgloss.NewStyle().
			Foreground(colorWhite)

	optionCurrent = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorYellow)

	optionChecked = lipgloss.NewStyle().
			Foreground(colorGreen)

	optionMatch = lipgloss.NewStyle().
			Foreground(colorCyan).
			Underline(true)
)

// --- Key bar styles ---

var (
	keyStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Bold(true)

	keyDescStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

var errorStyle = lipgloss.NewStyle().
	Foreground(colorRed).
	Bold(true)
