package runner

import "fmt"

// Stage names the phase of a run, for error reporting.
type Stage string

const (
	StageFetching    Stage = "fetching feed"
	StageDiffing     Stage = "diffing against store"
	StageProcessing  Stage = "processing videos"
	StageAggregating Stage = "building digest"
	StageNotifying   Stage = "sending notification"
)

// RunError is a run failure annotated with the stage it happened in.
type RunError struct {
	Stage Stage
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
