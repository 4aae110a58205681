// Package runner orchestrates one digest run: fetch the channel feed, diff
// it against the artifact store, summarize and persist each new video in
// order, then email the digest and optionally commit the artifacts.
//
// The store is the only run state. An id present in the store is never
// reprocessed, so a run that dies mid-batch resumes cleanly: the next run's
// diff skips everything already persisted and picks up at the first
// unfinished video.
package runner

import (
	"context"
	"fmt"
	"io"
	"time"

	"golang.org/x/time/rate"

	"github.com/gauthierbraillon/tubedigest/internal/digest"
	"github.com/gauthierbraillon/tubedigest/internal/feed"
)

// FeedSource obtains raw feed bytes for a channel id or local capture path.
type FeedSource interface {
	Fetch(ctx context.Context, target string) ([]byte, error)
}

// TranscriptSource obtains a video's transcript text.
type TranscriptSource interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// Notifier delivers the digest to a recipient.
type Notifier interface {
	Send(ctx context.Context, recipient, subject, body string) error
}

// Committer records newly persisted artifacts in version control.
type Committer interface {
	Commit(ctx context.Context, repoDir, path, message string) error
}

// Store is the append-only artifact store the run diffs against and writes to.
type Store interface {
	Exists(channelID, itemID string) (bool, error)
	Write(channelID, itemID, content string) error
	ChannelPath(channelID string) string
}

// Deps are the collaborators a run is wired with.
type Deps struct {
	Source      FeedSource
	Transcripts TranscriptSource
	Processor   *digest.Processor
	Builder     *digest.Builder
	Store       Store
	Notifier    Notifier
	Committer   Committer
}

// Config holds per-run settings.
type Config struct {
	// Recipient is the digest email address.
	Recipient string
	// MaxSummaries caps how many new videos one run processes, in feed
	// order. Zero means no cap.
	MaxSummaries int
	// Delay is the minimum spacing between consecutive video transforms.
	// Zero disables pacing.
	Delay time.Duration
	// CommitEnabled turns on the git commit step after notification.
	CommitEnabled bool
	// RepoDir is the repository the commit step runs in.
	RepoDir string
	// Out receives progress lines; nil discards them.
	Out io.Writer
}

// Report summarizes what a completed run did.
type Report struct {
	ChannelID     string
	ChannelTitle  string
	Found         int
	New           int
	Processed     int
	Subject       string
	Notified      bool
	Committed     bool
	CommitWarning string
}

// Runner drives one channel's digest run.
type Runner struct {
	deps    Deps
	cfg     Config
	limiter *rate.Limiter
	out     io.Writer
}

// New creates a runner. Delay maps to a limiter with burst 1: the first
// video proceeds immediately, every later one waits out the spacing.
func New(deps Deps, cfg Config) *Runner {
	out := cfg.Out
	if out == nil {
		out = io.Discard
	}
	var limiter *rate.Limiter
	if cfg.Delay > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Delay), 1)
	}
	return &Runner{deps: deps, cfg: cfg, limiter: limiter, out: out}
}

// Run executes one full run against target (a channel id or a local feed
// capture path). Artifacts persisted before a failure stay persisted; the
// returned error names the failing stage.
func (r *Runner) Run(ctx context.Context, target string) (*Report, error) {
	raw, err := r.deps.Source.Fetch(ctx, target)
	if err != nil {
		return nil, &RunError{Stage: StageFetching, Err: err}
	}

	hint := ""
	if !feed.IsFeedFile(target) {
		hint = target
	}
	snapshot, err := feed.Parse(raw, hint)
	if err != nil {
		return nil, &RunError{Stage: StageDiffing, Err: err}
	}

	report := &Report{
		ChannelID:    snapshot.ChannelID,
		ChannelTitle: snapshot.ChannelTitle,
		Found:        len(snapshot.Items),
	}
	fmt.Fprintf(r.out, "Found %d videos in channel %s.\n", report.Found, snapshot.ChannelID)

	newItems, err := r.diff(snapshot)
	if err != nil {
		return report, &RunError{Stage: StageDiffing, Err: err}
	}
	report.New = len(newItems)
	fmt.Fprintf(r.out, "Summarizing %d new videos...\n", report.New)

	if len(newItems) == 0 {
		return report, nil
	}

	artifacts, err := r.processAll(ctx, snapshot.ChannelID, newItems, report)
	if err != nil {
		return report, err
	}

	dg, err := r.deps.Builder.Build(ctx, snapshot.ChannelTitle, snapshot.ChannelID, artifacts)
	if err != nil {
		return report, &RunError{Stage: StageAggregating, Err: err}
	}
	report.Subject = dg.Subject

	fmt.Fprintf(r.out, "Sending digest email to %s...\n", r.cfg.Recipient)
	if err := r.deps.Notifier.Send(ctx, r.cfg.Recipient, dg.Subject, dg.Body); err != nil {
		return report, &RunError{Stage: StageNotifying, Err: err}
	}
	report.Notified = true

	r.commit(ctx, snapshot, len(artifacts), report)

	return report, nil
}

// diff returns the snapshot items not yet in the store, in source order,
// truncated to the configured cap.
func (r *Runner) diff(snapshot *feed.Snapshot) ([]feed.Item, error) {
	newItems := make([]feed.Item, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		exists, err := r.deps.Store.Exists(snapshot.ChannelID, item.ID)
		if err != nil {
			return nil, err
		}
		if !exists {
			newItems = append(newItems, item)
		}
	}
	if r.cfg.MaxSummaries > 0 && len(newItems) > r.cfg.MaxSummaries {
		newItems = newItems[:r.cfg.MaxSummaries]
	}
	return newItems, nil
}

// processAll summarizes and persists each item sequentially. Each persisted
// artifact is durable before the next item starts; a failure aborts the run
// with everything already written left in place.
func (r *Runner) processAll(ctx context.Context, channelID string, items []feed.Item, report *Report) ([]digest.Artifact, error) {
	artifacts := make([]digest.Artifact, 0, len(items))
	for _, item := range items {
		if r.limiter != nil {
			if err := r.limiter.Wait(ctx); err != nil {
				return nil, &RunError{Stage: StageProcessing, Err: err}
			}
		}
		fmt.Fprintf(r.out, "- Summarizing %s (%s)\n", item.Title, item.ID)

		transcriptText, err := r.deps.Transcripts.Fetch(ctx, item.ID)
		if err != nil {
			return nil, &RunError{Stage: StageProcessing, Err: fmt.Errorf("video %s: %w", item.ID, err)}
		}

		artifact, err := r.deps.Processor.Process(ctx, transcriptText, item)
		if err != nil {
			return nil, &RunError{Stage: StageProcessing, Err: err}
		}

		if err := r.deps.Store.Write(channelID, item.ID, artifact.Markdown); err != nil {
			return nil, &RunError{Stage: StageProcessing, Err: fmt.Errorf("video %s: %w", item.ID, err)}
		}

		artifacts = append(artifacts, artifact)
		report.Processed++
	}
	return artifacts, nil
}

// commit runs the optional git step. A failure here is a warning, never an
// error: the artifacts are persisted and the digest already went out.
func (r *Runner) commit(ctx context.Context, snapshot *feed.Snapshot, count int, report *Report) {
	if !r.cfg.CommitEnabled || r.deps.Committer == nil {
		return
	}

	message := fmt.Sprintf("Add %d summaries for channel %s", count, snapshot.ChannelTitle)
	path := r.deps.Store.ChannelPath(snapshot.ChannelID)
	if err := r.deps.Committer.Commit(ctx, r.cfg.RepoDir, path, message); err != nil {
		report.CommitWarning = err.Error()
		fmt.Fprintf(r.out, "Warning: %v\n", err)
		return
	}
	report.Committed = true
}
