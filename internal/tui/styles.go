// Package tui provides the terminal chat widget.
package tui

import "github.com/charmbracelet/lipgloss"

// Base palette
var (
	colorPrimary  = lipgloss.Color("#ff6b35") // brand orange
	colorAccent   = lipgloss.Color("#feca57")
	colorBorder   = lipgloss.Color("#3b4261")
	colorError    = lipgloss.Color("#ff5555")
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
)

var (
	// Header panel style
	headerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)

	// Messages area panel
	messagesAreaStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(0, 1)

	// User message
	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	userBubbleStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	// Bot message
	botLabelStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	botBubbleStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	// Display block styles
	blockHeaderStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	blockSeparatorStyle = lipgloss.NewStyle().
				Foreground(colorTextMute)

	blockListStyle = lipgloss.NewStyle().
			Foreground(colorText).
			PaddingLeft(2)

	blockTextStyle = lipgloss.NewStyle().
			Foreground(colorText)

	blockBoldStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	// Quick-action bar
	actionStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	actionSelectedStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Bold(true).
				Padding(0, 1)

	// Input area panel
	inputPanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	// Loading/spinner style
	loadingStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	// Status bar styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	// Error detail style
	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)
