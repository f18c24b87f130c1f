package tui

import "charm.land/lipgloss/v2"

// RootBadge marks tools whose install script asks for the sudo password.
func (t Theme) RootBadge() string {
	return t.BadgeRoot.Render("[root]")
}

// StatusIcon renders a colored Unicode check or cross.
func (t Theme) StatusIcon(ok bool) string {
	if ok {
		return lipgloss.NewStyle().Foreground(t.Success).Bold(true).Render("✓")
	}
	return lipgloss.NewStyle().Foreground(t.Error).Bold(true).Render("✗")
}
