package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorWhite = lipgloss.Color("255")
	colorDim   = lipgloss.Color("240")
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	styleKey   = lipgloss.NewStyle().Foreground(colorDim)
	styleValue = lipgloss.NewStyle().Foreground(colorWhite)
)

const keyWidth = 14

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, styleTitle.Render(title))
}

// printField writes an aligned "key  value" line
func printField(w io.Writer, key, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", styleKey.Render(fmt.Sprintf("%-*s", keyWidth, key+":")), styleValue.Render(fmt.Sprintf(format, args...)))
}
