package feed

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

var (
	// ErrMalformed means the feed bytes could not be parsed into a snapshot.
	ErrMalformed = errors.New("malformed feed")
	// ErrMissingField means an entry lacks a required field (id, title or published).
	ErrMissingField = errors.New("missing feed field")
)

// Parse turns raw feed bytes into a Snapshot.
//
// The channel id comes from the feed's own yt:channelId extension when
// present; channelHint is only used as a fallback for feeds that lack it.
// Every entry must carry a yt:videoId, a title and a published timestamp;
// a single incomplete entry fails the whole parse, partial snapshots are
// never returned.
func Parse(data []byte, channelHint string) (*Snapshot, error) {
	parsed, err := gofeed.NewParser().Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	channelID := extensionValue(parsed.Extensions, "channelId")
	if channelID == "" {
		channelID = channelHint
	}
	if channelID == "" {
		return nil, fmt.Errorf("%w: feed has no yt:channelId and no channel id was supplied", ErrMalformed)
	}

	items := make([]Item, 0, len(parsed.Items))
	for i, entry := range parsed.Items {
		videoID := extensionValue(entry.Extensions, "videoId")
		if videoID == "" {
			return nil, fmt.Errorf("%w: entry %d has no yt:videoId", ErrMissingField, i)
		}
		if entry.Title == "" {
			return nil, fmt.Errorf("%w: entry %d (%s) has no title", ErrMissingField, i, videoID)
		}
		if entry.Published == "" {
			return nil, fmt.Errorf("%w: entry %d (%s) has no published timestamp", ErrMissingField, i, videoID)
		}

		url := entry.Link
		if url == "" {
			url = WatchURL(videoID)
		}

		items = append(items, Item{
			ID:        videoID,
			Title:     entry.Title,
			Published: entry.Published,
			URL:       url,
		})
	}

	return &Snapshot{
		ChannelID:    channelID,
		ChannelTitle: parsed.Title,
		Items:        items,
	}, nil
}

// extensionValue returns the first value of a yt-namespace extension element.
func extensionValue(exts ext.Extensions, name string) string {
	values, ok := exts["yt"][name]
	if !ok || len(values) == 0 {
		return ""
	}
	return values[0].Value
}
