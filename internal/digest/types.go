// Package digest turns transcripts into per-video Markdown artifacts and
// aggregates a run's artifacts into one email-ready digest.
//
// This package enables tubedigest to:
// - Render one artifact per video (heading, summary, provenance footer)
// - Compose a single-video digest whose subject is the video's own title
// - Compose a multi-video digest with an "At a glance" meta-summary
package digest

import (
	"context"

	"github.com/gauthierbraillon/tubedigest/internal/feed"
)

// Summarizer is the text-transform capability both the processor and the
// builder delegate to.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// Artifact is the rendered, persistable output for one video.
type Artifact struct {
	Item     feed.Item
	Markdown string
}

// Digest is the aggregated notification payload for one run's new artifacts.
type Digest struct {
	Subject string
	Body    string
}
