package digest

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Builder aggregates a run's artifacts into one digest.
type Builder struct {
	summarizer Summarizer
}

// NewBuilder creates a digest builder. The summarizer is only consulted for
// multi-artifact digests, to produce the meta-summary.
func NewBuilder(summarizer Summarizer) *Builder {
	return &Builder{summarizer: summarizer}
}

// Build composes the digest for a batch of artifacts, in batch order.
//
// One artifact: the subject is the video's own title and the body is the
// artifact itself, so the reader knows from the subject alone which video
// this is about.
//
// Several artifacts: each artifact is demoted one heading level and the
// batch is summarized into an "At a glance" section under a channel-level
// heading; the subject states the count.
func (b *Builder) Build(ctx context.Context, channelTitle, channelID string, artifacts []Artifact) (*Digest, error) {
	switch len(artifacts) {
	case 0:
		return nil, errors.New("no artifacts to build a digest from")
	case 1:
		return &Digest{
			Subject: artifacts[0].Item.Title,
			Body:    artifacts[0].Markdown,
		}, nil
	}

	demoted := make([]string, 0, len(artifacts))
	for _, artifact := range artifacts {
		demoted = append(demoted, "#"+artifact.Markdown)
	}
	combined := strings.TrimSpace(strings.Join(demoted, "\n\n"))

	meta, err := b.summarizer.Summarize(ctx, combined)
	if err != nil {
		return nil, fmt.Errorf("meta-summary: %w", err)
	}

	body := fmt.Sprintf(`# Summaries for channel %s (%s)

## At a glance

%s

%s
`, channelTitle, channelID, meta, combined)

	return &Digest{
		Subject: fmt.Sprintf("[%s] %d new video summaries", channelTitle, len(artifacts)),
		Body:    body,
	}, nil
}
