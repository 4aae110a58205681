package digest

import (
	"context"
	"fmt"

	"github.com/gauthierbraillon/tubedigest/internal/feed"
)

// Processor renders one video's transcript into a Markdown artifact.
type Processor struct {
	summarizer Summarizer
}

// NewProcessor creates a processor delegating text transformation to summarizer.
func NewProcessor(summarizer Summarizer) *Processor {
	return &Processor{summarizer: summarizer}
}

// Process summarizes the transcript and renders the artifact. Summarizer
// failures propagate unchanged; there is no retry here.
func (p *Processor) Process(ctx context.Context, transcript string, item feed.Item) (Artifact, error) {
	summary, err := p.summarizer.Summarize(ctx, transcript)
	if err != nil {
		return Artifact{}, fmt.Errorf("summarizing %s: %w", item.ID, err)
	}
	return Artifact{Item: item, Markdown: renderArtifact(item, summary)}, nil
}

// renderArtifact produces the exact artifact layout: title heading, summary
// body, provenance footer.
func renderArtifact(item feed.Item, summary string) string {
	return "# " + item.Title + "\n\n" +
		summary +
		"\n\n*Published on " + item.Published + " at " + item.URL + "*\n"
}
