package preview

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/rlch/inlay"
)

var (
	colorTypeHint     = lipgloss.Color("#06b6d4") // cyan-500
	colorChainingHint = lipgloss.Color("#d946ef") // fuchsia-500
	colorHint         = lipgloss.Color("#6b7280") // gray-500
	colorLineNumber   = lipgloss.Color("#374151") // gray-700
)

// Styles holds the lipgloss styles used to print a preview.
type Styles struct {
	LineNumber   lipgloss.Style
	TypeHint     lipgloss.Style
	ChainingHint lipgloss.Style
	Hint         lipgloss.Style

	// Gutter separates line numbers from source text.
	Gutter string
}

// DefaultStyles colours each highlight group the way an editor theme linking
// the groups to a comment style would.
func DefaultStyles() *Styles {
	return &Styles{
		LineNumber:   lipgloss.NewStyle().Foreground(colorLineNumber),
		TypeHint:     lipgloss.NewStyle().Foreground(colorTypeHint).Italic(true),
		ChainingHint: lipgloss.NewStyle().Foreground(colorChainingHint).Italic(true),
		Hint:         lipgloss.NewStyle().Foreground(colorHint).Italic(true),
		Gutter:       " │ ",
	}
}

// PlainStyles renders without escape sequences.
func PlainStyles() *Styles {
	return &Styles{
		LineNumber:   lipgloss.NewStyle(),
		TypeHint:     lipgloss.NewStyle(),
		ChainingHint: lipgloss.NewStyle(),
		Hint:         lipgloss.NewStyle(),
		Gutter:       " | ",
	}
}

// StylesFor picks DefaultStyles when w is a terminal and PlainStyles otherwise.
func StylesFor(w io.Writer) *Styles {
	f, ok := w.(*os.File)
	if ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return DefaultStyles()
	}

	return PlainStyles()
}

func (s *Styles) group(name string) lipgloss.Style {
	switch name {
	case inlay.GroupTypeHint:
		return s.TypeHint
	case inlay.GroupChainingHint:
		return s.ChainingHint
	default:
		return s.Hint
	}
}
