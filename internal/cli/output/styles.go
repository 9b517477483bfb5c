package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles holds the lipgloss styles used for terminal output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style

	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style

	ReportPath lipgloss.Style

	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// newStyles builds the style set. When styled is false every style is a
// no-op so piped output stays free of escape codes.
func newStyles(styled bool) *Styles {
	if !styled || termenv.EnvColorProfile() == termenv.Ascii {
		plain := lipgloss.NewStyle()
		return &Styles{
			Header1:       plain,
			Header2:       plain,
			Bold:          plain,
			Muted:         plain,
			Error:         plain,
			Warning:       plain,
			Info:          plain,
			Success:       plain,
			ReportPath:    plain,
			StatusSuccess: plain,
			StatusFailed:  plain,
		}
	}

	return &Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Underline(true),
		Header2:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:          lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		ReportPath:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}
