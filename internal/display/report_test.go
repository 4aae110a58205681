// Package display tests document the expected run-report formatting.
//
// Test requirements (this file serves as documentation):
// - The header names the channel title and id
// - Counts line shows found/new/summarized
// - An empty run says so instead of listing digest lines
// - Commit warnings are surfaced
package display

import (
	"strings"
	"testing"

	"github.com/gauthierbraillon/tubedigest/internal/runner"
)

func TestReportFormatter_Format_FullRun(t *testing.T) {
	formatter := NewReportFormatter()

	out := formatter.Format(&runner.Report{
		ChannelID:    "UCtestchannelidtestchan",
		ChannelTitle: "Test Channel",
		Found:        15,
		New:          2,
		Processed:    2,
		Subject:      "[Test Channel] 2 new video summaries",
		Notified:     true,
		Committed:    true,
	})

	for _, want := range []string{
		"Test Channel",
		"(UCtestchannelidtestchan)",
		"15 videos in feed",
		"2 new",
		"2 summarized",
		"digest sent:",
		"[Test Channel] 2 new video summaries",
		"committed to git",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestReportFormatter_Format_NothingNew(t *testing.T) {
	formatter := NewReportFormatter()

	out := formatter.Format(&runner.Report{
		ChannelID:    "UCtestchannelidtestchan",
		ChannelTitle: "Test Channel",
		Found:        15,
	})

	if !strings.Contains(out, "nothing new to do") {
		t.Errorf("expected empty-run message, got:\n%s", out)
	}
	if strings.Contains(out, "digest sent") {
		t.Errorf("expected no digest line for an empty run, got:\n%s", out)
	}
}

func TestReportFormatter_Format_CommitWarning(t *testing.T) {
	formatter := NewReportFormatter()

	out := formatter.Format(&runner.Report{
		ChannelID:     "UCtestchannelidtestchan",
		ChannelTitle:  "Test Channel",
		Found:         3,
		New:           1,
		Processed:     1,
		Subject:       "Alpha",
		Notified:      true,
		CommitWarning: "git commit failed: git push: exit status 1",
	})

	if !strings.Contains(out, "warning:") || !strings.Contains(out, "git push") {
		t.Errorf("expected commit warning in output, got:\n%s", out)
	}
}
