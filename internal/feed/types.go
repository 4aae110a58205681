// Package feed fetches and parses YouTube channel Atom feeds.
//
// This package enables tubedigest to:
// - Fetch a channel's feed over HTTP or from a local capture file
// - Parse raw feed bytes into an ordered channel snapshot
// - Surface malformed feeds and missing entry fields as distinct errors
package feed

// Item is one video entry from a channel feed. Identity is by ID alone;
// two items with the same ID are the same work item even if the feed
// republished them with a different title or timestamp.
type Item struct {
	ID        string
	Title     string
	Published string
	URL       string
}

// Snapshot is the parsed, in-memory representation of one feed fetch.
// Items are kept in the order the feed lists them (typically newest-first).
type Snapshot struct {
	ChannelID    string
	ChannelTitle string
	Items        []Item
}
