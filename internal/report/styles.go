package report

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite).
			Background(colorBlue).
			Padding(0, 1)

	headerCellStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().Padding(0, 1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorGray).
			Italic(true)
)

// amountStyle colors a money figure by its sign.
func amountStyle(v float64) lipgloss.Style {
	switch {
	case v > 0:
		return cellStyle.Foreground(colorGreen)
	case v < 0:
		return cellStyle.Foreground(colorRed)
	default:
		return cellStyle.Foreground(colorGray)
	}
}

// statusStyle returns a color-coded style for a task status.
func statusStyle(status string) lipgloss.Style {
	switch status {
	case "in-progress":
		return cellStyle.Foreground(colorYellow)
	case "completed":
		return cellStyle.Foreground(colorGreen)
	default:
		return cellStyle.Foreground(colorBlue)
	}
}
