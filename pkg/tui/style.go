package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// UI styles and layout settings
// Color palette "Blue Moon" from https://gogh-co.github.io/Gogh/
const (
	colorGray     = "#353b52"
	colorWhite    = "#ffffff"
	colorGreen    = "#acfab4"
	colorGreenDim = "#b4c4b4"
	colorRed      = "#e61f44"
	colorRedDim   = "#d06178"
	colorPurple   = "#b9a3eb"
	colorBlue     = "#89ddff"
	colorYellow   = "#ffcb6b"

	marqueeTickDuration = time.Duration(time.Second / 20)
	marqueeGap          = "    "
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue)).
			Background(lipgloss.Color(colorGray)).
			Padding(0, 2).Align(lipgloss.Center)
	subtitleStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorBlue))
	activeTabStyle = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorBlue)).
			Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorBlue)).
				Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray)).
			Background(lipgloss.Color(colorGreen))
	dangerSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Background(lipgloss.Color(colorRed))
	inactiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	favoriteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color(colorYellow))
	labelStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorBlue))
	textStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite))
	ingredientStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGray))
)

// Function to colorize text based on its status
// 0 (default) - unknown, 1 - green, 2 - red
func TextStatusColorize(text string, status int) string {
	switch status {
	case 1:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreenDim)).Render(text)
	case 2:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorRedDim)).Render(text)
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray)).Render(text)
	}
}

// Generates pointer symbol when line in focus
func generateLinePointer(isPoint bool, length int) string {
	if isPoint {
		return ">" + strings.Repeat(" ", length-1)
	}
	return strings.Repeat(" ", length)
}

// Scrolls text that does not fit into availableWidth. Offsets count runes so
// accented names are never split inside a character.
func (m model) marqueeText(text string, availableWidth int) string {
	runes := []rune(text)
	if availableWidth <= 0 || len(runes) <= availableWidth {
		return text
	}
	padded := []rune(text + marqueeGap + text)
	offset := m.marqueeOffset % (len(runes) + len([]rune(marqueeGap)))
	if offset+availableWidth <= len(padded) {
		text = string(padded[offset : offset+availableWidth])
	}
	return text
}

// Cuts text to availableWidth terminal cells, marking the cut with two dots
func truncateText(text string, availableWidth int) string {
	if availableWidth > 3 && ansi.StringWidth(text) > availableWidth {
		return ansi.Truncate(text, availableWidth, "..")
	}
	return text
}

// List column takes 40%, details the rest
func (m model) columnWidths() (int, int) {
	leftWidth := (m.width * 40) / 100
	return leftWidth, m.width - leftWidth
}
