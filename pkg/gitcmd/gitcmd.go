// Package gitcmd commits artifact directories to a git repository by
// shelling out to the git binary.
package gitcmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrCommit means a git step (add, commit or push) failed.
var ErrCommit = errors.New("git commit failed")

// CommandRunner executes an external command in a directory and returns its
// combined output (allows injection for testing).
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args in dir.
func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// ServiceOption configures the Service.
type ServiceOption func(*Service)

// WithRunner sets a custom command runner.
func WithRunner(runner CommandRunner) ServiceOption {
	return func(s *Service) {
		s.runner = runner
	}
}

// Service stages, commits and pushes artifact paths.
type Service struct {
	runner CommandRunner
}

// NewService creates a git commit service.
func NewService(opts ...ServiceOption) *Service {
	s := &Service{runner: ExecRunner{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commit stages path inside repoDir, commits with message and pushes.
// The first failing step aborts with its captured output.
func (s *Service) Commit(ctx context.Context, repoDir, path, message string) error {
	steps := [][]string{
		{"add", path},
		{"commit", "-m", message},
		{"push"},
	}

	for _, args := range steps {
		out, err := s.runner.Run(ctx, repoDir, "git", args...)
		if err != nil {
			return fmt.Errorf("%w: git %s: %v: %s", ErrCommit, args[0], err, bytes.TrimSpace(out))
		}
	}
	return nil
}
