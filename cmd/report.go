package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ginjaninja78/disperse-validator/internal/disperse"
	"github.com/ginjaninja78/disperse-validator/internal/lineparser"
	"github.com/ginjaninja78/disperse-validator/internal/types"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// printReport writes the validation outcome of a list.
func printReport(w io.Writer, name string, result disperse.Result) {
	fmt.Fprintln(w, headerStyle.Render(name))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("%d line(s), %d entr(ies), %d malformed",
		len(result.Lines), len(result.Entries), len(lineparser.Failures(result.Lines)))))

	if result.Clean() {
		fmt.Fprintln(w, okStyle.Render("✓ no errors"))
		return
	}

	fmt.Fprintln(w, errorStyle.Render(fmt.Sprintf("✗ %d error(s)", len(result.Errors))))
	for _, ve := range result.Errors {
		style := errorStyle
		if ve.Kind == types.DuplicateAddress {
			style = warnStyle
		}
		fmt.Fprintf(w, "  %s %s\n", style.Render(fmt.Sprintf("[%s]", ve.Kind)), ve.Message)
	}
}

func inputName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
