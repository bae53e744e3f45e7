package styles

import "github.com/charmbracelet/lipgloss"

var (
	// Color palette
	Primary   = lipgloss.Color("#FF6B9D")
	Secondary = lipgloss.Color("#C792EA")
	Success   = lipgloss.Color("#C3E88D")
	Warning   = lipgloss.Color("#FFCB6B")
	Error     = lipgloss.Color("#F07178")
	Info      = lipgloss.Color("#82AAFF")
	Muted     = lipgloss.Color("#546E7A")

	RoundedBorder = lipgloss.RoundedBorder()
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(Muted)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Success)

	WarningStyle = lipgloss.NewStyle().
			Foreground(Warning)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Info)

	HelpStyle = lipgloss.NewStyle().
			Foreground(Warning).
			MarginTop(1)

	// Page panel wrapping ASCII renderings
	PanelStyle = lipgloss.NewStyle().
			Border(RoundedBorder).
			BorderForeground(Info)

	PanelTitleStyle = lipgloss.NewStyle().
			Foreground(Info).
			Bold(true).
			PaddingLeft(2)

	ProgressBarStyle = lipgloss.NewStyle().
				Foreground(Primary)

	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(Muted)
)

// Panel draws body inside a rounded border with title above it.
func Panel(title, body string) string {
	box := PanelStyle.Render(body)
	if title == "" {
		return box
	}
	return lipgloss.JoinVertical(lipgloss.Left, PanelTitleStyle.Render(title), box)
}
