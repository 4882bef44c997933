package main

import (
	"github.com/charmbracelet/lipgloss"
)

// Terminal styles for the output of the maintenance subcommands. fzf never
// sees these; its output is coloured through keymap.Styles.
var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

func successText(s string) string { return successStyle.Render("✓ " + s) }
func errorText(s string) string { return errorStyle.Render("✗ " + s) }
func warningText(s string) string { return warningStyle.Render("! " + s) }
func infoText(s string) string { return infoStyle.Render(s) }
