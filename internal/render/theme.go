package render

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Theme decides how headings, totals and negative amounts look.
type Theme struct {
	styled   bool
	heading  lipgloss.Style
	total    lipgloss.Style
	negative lipgloss.Style
	muted    lipgloss.Style
}

// Plain renders without escape sequences.
func Plain() Theme {
	return Theme{}
}

// Styled renders with terminal colors.
func Styled() Theme {
	return Theme{
		styled:   true,
		heading:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FAFFF"}),
		total:    lipgloss.NewStyle().Bold(true),
		negative: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#D70000", Dark: "#FF5F87"}),
		muted:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"}),
	}
}

// ThemeFor picks Styled when w is a terminal and Plain otherwise.
func ThemeFor(w io.Writer) Theme {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return Styled()
	}
	return Plain()
}

func (t Theme) Heading(s string) string { return t.apply(t.heading, s) }
func (t Theme) Total(s string) string   { return t.apply(t.total, s) }
func (t Theme) Muted(s string) string   { return t.apply(t.muted, s) }

// Amount styles an already formatted amount; parenthesized values are negative.
func (t Theme) Amount(s string) string {
	if len(s) > 0 && s[0] == '(' {
		return t.apply(t.negative, s)
	}
	return s
}

func (t Theme) apply(style lipgloss.Style, s string) string {
	if !t.styled {
		return s
	}
	return style.Render(s)
}
