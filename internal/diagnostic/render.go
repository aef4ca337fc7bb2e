package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Render writes every diagnostic to w, one per line, errors first.
// Suggestions are listed under the diagnostic they belong to.
func Render(w io.Writer, d Diagnostics, noColor bool) error {
	for _, diag := range d.All() {
		c := severityColor(diag.Severity)
		if noColor {
			c.DisableColor()
		}

		label := c.Sprintf("%-7s", diag.Severity.String())

		if _, err := fmt.Fprintf(w, "%s %s\n", label, diag.String()); err != nil {
			return err
		}

		if len(diag.Suggestions) > 0 {
			if _, err := fmt.Fprintf(w, "        did you mean: %s?\n", strings.Join(diag.Suggestions, ", ")); err != nil {
				return err
			}
		}
	}

	return nil
}

// Summary returns a one-line count of errors, warnings and infos.
func Summary(d Diagnostics) string {
	return fmt.Sprintf("%d error(s), %d warning(s), %d info(s)", len(d.Errors), len(d.Warnings), len(d.Infos))
}

func severityColor(s Severity) *color.Color {
	switch s {
	case SeverityError:
		return color.New(color.FgRed, color.Bold)
	case SeverityWarning:
		return color.New(color.FgYellow, color.Bold)
	default:
		return color.New(color.FgCyan)
	}
}
