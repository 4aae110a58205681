// Package display provides terminal output formatting for tubedigest.
package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gauthierbraillon/tubedigest/internal/runner"
)

const separator = " • "

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#39D353")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E7681"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#2DA44E")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D29922")).Bold(true)
)

// ReportFormatter formats a finished run for terminal display.
type ReportFormatter struct{}

// NewReportFormatter creates a new report formatter.
func NewReportFormatter() *ReportFormatter {
	return &ReportFormatter{}
}

// Format renders the run report as a short block of lines.
func (f *ReportFormatter) Format(r *runner.Report) string {
	var lines []string

	header := fmt.Sprintf("%s %s", titleStyle.Render(r.ChannelTitle), dimStyle.Render("("+r.ChannelID+")"))
	lines = append(lines, header)

	counts := fmt.Sprintf("  %d videos in feed%s%d new%s%d summarized",
		r.Found, separator, r.New, separator, r.Processed)
	lines = append(lines, counts)

	if r.New == 0 {
		lines = append(lines, dimStyle.Render("  nothing new to do"))
		return strings.Join(lines, "\n") + "\n"
	}

	if r.Notified {
		lines = append(lines, "  "+successStyle.Render("digest sent:")+" "+r.Subject)
	}
	if r.Committed {
		lines = append(lines, "  "+successStyle.Render("committed to git"))
	}
	if r.CommitWarning != "" {
		lines = append(lines, "  "+warningStyle.Render("warning:")+" "+r.CommitWarning)
	}

	return strings.Join(lines, "\n") + "\n"
}
