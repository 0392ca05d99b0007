package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/yourusername/termreel/pkg/utils"
)

// View renders the progress line.
func (m Model) View() string {
	if m.done {
		if m.err != nil {
			return errorStyle.Render("✗ recording failed") + "\n"
		}
		return doneStyle.Render("✓ recording finished") + "\n"
	}

	var b strings.Builder
	b.WriteString(m.spinner.View())
	b.WriteString(" recording ")
	b.WriteString(commandStyle.Render(truncate(m.command, maxCommandWidth)))
	if m.phase != "" {
		b.WriteString(" ")
		b.WriteString(phaseStyle.Render(string(m.phase)))
	}
	b.WriteString(statStyle.Render(fmt.Sprintf(" %d frames · %s",
		m.frames, utils.FormatDuration(m.now().Sub(m.start)))))
	b.WriteString("\n")
	return b.String()
}

// truncate shortens s to n terminal cells, counting wide characters twice.
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "…")
}
