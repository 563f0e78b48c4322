package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/surfshell/internal/shell"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Background(lipgloss.Color("236")).
				Padding(0, 2)

	tabBarStyle = lipgloss.NewStyle().
			MarginBottom(1)

	tabGap = lipgloss.NewStyle().
		Background(lipgloss.Color("235")).
		SetString(" ")
)

// renderTabBar renders one tab per workspace, the current one highlighted.
func renderTabBar(workspaces []shell.Workspace, width int) string {
	tabs := make([]string, 0, len(workspaces))
	for _, ws := range workspaces {
		label := fmt.Sprintf("%d:%s (%d)", ws.ID, ws.Name, ws.Surfaces)
		if ws.Current {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	row := lipgloss.JoinHorizontal(lipgloss.Top, intersperse(tabs, tabGap.Render())...)
	return tabBarStyle.Width(width).Render(row)
}

// intersperse inserts sep between each element of items.
func intersperse(items []string, sep string) []string {
	if len(items) <= 1 {
		return items
	}
	result := make([]string, 0, len(items)*2-1)
	for i, item := range items {
		if i > 0 {
			result = append(result, sep)
		}
		result = append(result, item)
	}
	return result
}

// renderStatusBar shows the session state and the last error.
func renderStatusBar(snap shell.Snapshot, lastError string, width int) string {
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("●")
	mode := "desktop"
	if snap.Overview.Status == "active" {
		dot = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("●")
		mode = "multitask view"
	}

	parts := []string{dot + " " + mode}
	if snap.Activated != "" {
		parts = append(parts, "focus:"+snap.Activated)
	}
	parts = append(parts, "layout:"+snap.Layout)
	if snap.ShowDesktop {
		parts = append(parts, "show-desktop")
	}
	if lastError != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(lastError))
	}

	style := lipgloss.NewStyle().
		Width(width).
		Background(lipgloss.Color("235")).
		Foreground(lipgloss.Color("250")).
		Padding(0, 1)
	return style.Render(strings.Join(parts, "  "))
}
