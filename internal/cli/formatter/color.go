package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
	StyleStrike = lipgloss.NewStyle().Foreground(ColorDim).Strikethrough(true)
)

// TypeStyle returns the color for an event type. Unknown types are dimmed.
func TypeStyle(t domain.EventType) lipgloss.Style {
	switch t {
	case domain.EventDeadline:
		return StyleRed
	case domain.EventMilestone:
		return StylePurple
	case domain.EventMeeting:
		return StyleBlue
	case domain.EventTask:
		return StyleGreen
	default:
		return StyleDim
	}
}

// TypeIcon returns the single-glyph marker drawn before event titles.
func TypeIcon(t domain.EventType) string {
	switch t {
	case domain.EventDeadline:
		return "◆"
	case domain.EventMilestone:
		return "★"
	case domain.EventMeeting:
		return "●"
	case domain.EventTask:
		return "■"
	default:
		return "•"
	}
}

// TypeBadge renders the colored icon and type name, e.g. "◆ deadline".
func TypeBadge(t domain.EventType) string {
	label := string(t)
	if label == "" {
		label = "event"
	}
	return TypeStyle(t).Render(TypeIcon(t) + " " + label)
}

// PriorityPill returns a colored priority indicator such as "▲ High".
// An unrecognized priority is shown verbatim.
func PriorityPill(p domain.Priority) string {
	switch p {
	case domain.PriorityHigh:
		return StyleRed.Render("▲ High")
	case domain.PriorityMedium:
		return StyleYellow.Render("■ Medium")
	case domain.PriorityLow:
		return StyleDim.Render("▼ Low")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleDim.Render("? " + string(p))
	}
}

// StatusPill returns a colored status indicator for an event.
func StatusPill(s domain.EventStatus) string {
	switch s {
	case domain.StatusUpcoming:
		return StyleBlue.Render("○ Upcoming")
	case domain.StatusCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.StatusCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(s))
	}
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
