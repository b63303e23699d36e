package tui

import "github.com/charmbracelet/lipgloss"

// Print-shop palette: paper, ink, and the two cadre mark colours.
var (
	ColorInk       = lipgloss.Color("#ECEFF4")
	ColorDim       = lipgloss.Color("#7A8291")
	ColorAccent    = lipgloss.Color("#D08770")
	ColorAccentAlt = lipgloss.Color("#8FBCBB")
	ColorSuccess   = lipgloss.Color("#A3BE8C")
	ColorWarn      = lipgloss.Color("#EBCB8B")
	ColorError     = lipgloss.Color("#BF616A")
)
