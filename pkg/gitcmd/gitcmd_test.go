// Package gitcmd tests document the expected behavior of the commit service.
//
// Test requirements (this file serves as documentation):
// - Commit runs add, commit, push in order, all in the repo directory
// - The first failing step aborts the sequence with ErrCommit
// - Command output is carried in the error for diagnosis
package gitcmd

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// fakeRunner records invocations and fails on a chosen subcommand.
type fakeRunner struct {
	calls  [][]string
	dirs   []string
	failOn string
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) ([]byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	f.dirs = append(f.dirs, dir)
	if len(args) > 0 && args[0] == f.failOn {
		return []byte("fatal: remote hung up\n"), errors.New("exit status 1")
	}
	return nil, nil
}

func TestService_Commit_RunsStepsInOrder(t *testing.T) {
	runner := &fakeRunner{}
	service := NewService(WithRunner(runner))

	err := service.Commit(context.Background(), "/repo", "summaries/UCchannel", "Add 2 summaries for channel Test Channel")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]string{
		{"git", "add", "summaries/UCchannel"},
		{"git", "commit", "-m", "Add 2 summaries for channel Test Channel"},
		{"git", "push"},
	}
	if len(runner.calls) != len(want) {
		t.Fatalf("expected %d git invocations, got %d", len(want), len(runner.calls))
	}
	for i := range want {
		if strings.Join(runner.calls[i], " ") != strings.Join(want[i], " ") {
			t.Errorf("step %d: expected %v, got %v", i, want[i], runner.calls[i])
		}
		if runner.dirs[i] != "/repo" {
			t.Errorf("step %d: expected repo dir /repo, got %q", i, runner.dirs[i])
		}
	}
}

func TestService_Commit_FailingStepAborts(t *testing.T) {
	runner := &fakeRunner{failOn: "commit"}
	service := NewService(WithRunner(runner))

	err := service.Commit(context.Background(), "/repo", "summaries/UCchannel", "msg")
	if !errors.Is(err, ErrCommit) {
		t.Fatalf("expected ErrCommit, got %v", err)
	}
	if len(runner.calls) != 2 {
		t.Errorf("expected push to be skipped after commit failure, got %d calls", len(runner.calls))
	}
	if !strings.Contains(err.Error(), "remote hung up") {
		t.Errorf("expected captured git output in error, got %q", err.Error())
	}
}
