package cmd

import "github.com/charmbracelet/lipgloss"

// Section headers in one-shot command output.
var sectionStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("39"))
