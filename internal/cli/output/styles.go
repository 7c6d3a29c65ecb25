package output

import "github.com/charmbracelet/lipgloss"

// Styles are the lipgloss styles used by text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style

	// Status markers, rendered with String().
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
	StatusMissing lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	green := lipgloss.AdaptiveColor{Light: "#198754", Dark: "#3FB950"}
	yellow := lipgloss.AdaptiveColor{Light: "#B58105", Dark: "#D29922"}
	red := lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#F85149"}
	gray := lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#8B949E"}

	return &Styles{
		Header1: r.NewStyle().Bold(true).Underline(true),
		Header2: r.NewStyle().Bold(true),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(gray),
		Success: r.NewStyle().Foreground(green),
		Warning: r.NewStyle().Foreground(yellow),
		Error:   r.NewStyle().Foreground(red),

		StatusSuccess: r.NewStyle().Foreground(green).SetString("✓"),
		StatusFailed:  r.NewStyle().Foreground(red).SetString("✗"),
		StatusMissing: r.NewStyle().Foreground(gray).SetString("-"),
	}
}
