// Package tui provides the terminal user interface for ragchat.
package tui

import "github.com/charmbracelet/lipgloss"

// Color palette (tokyonight-ish, matching the one-shot query output)
var (
	colorBorder   = lipgloss.Color("#3b4261")
	colorPrimary  = lipgloss.Color("#7aa2f7")
	colorUser     = lipgloss.Color("#9ece6a")
	colorError    = lipgloss.Color("#f7768e")
	colorText     = lipgloss.Color("#c0caf5")
	colorTextDim  = lipgloss.Color("#565f89")
	colorTextMute = lipgloss.Color("#3b4261")
)

var (
	// Header panel style
	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 2).
			MarginBottom(1)

	// Title style for header
	titleStyle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	// Subtitle/backend URL style
	subtitleStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	// Messages area panel
	messagesAreaStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorBorder).
				Padding(1)

	// User message bubble: highlighted, pushed to the right
	userBubbleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#283b4d")).
			Foreground(colorText).
			Padding(0, 1).
			MarginLeft(8)

	// User label style
	userLabelStyle = lipgloss.NewStyle().
			Foreground(colorUser).
			Bold(true)

	// Assistant message block, left aligned with a marker
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				Foreground(colorText).
				MarginRight(8)

	// Input area panel
	inputPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1).
			MarginTop(1)

	// Input label style
	inputLabelStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Bold(true)

	// Loading/spinner style
	loadingStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	// Status bar styles
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorTextMute)
	statusKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)
	statusDescStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	// Error style
	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	// Welcome styles
	welcomeStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Align(lipgloss.Center)
	welcomeTitleStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true).
				Align(lipgloss.Center)
	welcomeIconStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Align(lipgloss.Center)
)
