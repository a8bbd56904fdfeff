// Package style provides shared colors and icons for terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
)

// CostColor picks a color for a cost relative to the reporting floor:
// red at ten times the floor or more, yellow at the floor, slate below it.
func CostColor(cost, floor float64) lipgloss.Color {
	switch {
	case floor > 0 && cost >= 10*floor:
		return Red
	case cost >= floor:
		return Yellow
	default:
		return Slate
	}
}
