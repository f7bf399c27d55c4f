package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Header HeaderTheme
	Tree   TreeTheme
	Footer FooterTheme
}

// HeaderTheme styles the catalog tabs.
type HeaderTheme struct {
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
}

// TreeTheme styles tree rows.
type TreeTheme struct {
	Group    lipgloss.Style
	Leaf     lipgloss.Style
	Detail   lipgloss.Style
	Selected lipgloss.Style
	Match    lipgloss.Style
	Empty    lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	tab := lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("244"))

	return Theme{
		Header: HeaderTheme{
			Tab: tab,
			ActiveTab: tab.
				Foreground(lipgloss.Color("212")).
				Bold(true).
				Underline(true),
		},
		Tree: TreeTheme{
			Group:    lipgloss.NewStyle().Bold(true),
			Leaf:     lipgloss.NewStyle(),
			Detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
			Selected: lipgloss.NewStyle().Reverse(true),
			Match:    lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Bold(true),
			Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}
