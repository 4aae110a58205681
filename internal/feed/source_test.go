// Source tests document the expected behavior of feed fetching.
//
// Test requirements (this file serves as documentation):
// - Source fetches feed bytes from the channel feed endpoint
// - Source reads local feed capture files directly
// - HTTP failures and unreadable files surface as ErrUnavailable
// - Transient statuses are retried, hard statuses are not
package feed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

// TestSource_Fetch_ReturnsFeedBytes documents the HTTP path:
// - The channel id is appended to the feed endpoint query
func TestSource_Fetch_ReturnsFeedBytes(t *testing.T) {
	var requestedURL string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedURL = r.URL.String()
		fmt.Fprint(w, validAtomXML)
	}))
	defer server.Close()

	source := NewSource(WithBaseURL(server.URL))
	data, err := source.Fetch(context.Background(), "UCtestchannelidtestchan")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != validAtomXML {
		t.Error("expected raw feed bytes back unchanged")
	}
	if requestedURL != "/feeds/videos.xml?channel_id=UCtestchannelidtestchan" {
		t.Errorf("unexpected request URL %q", requestedURL)
	}
}

// TestSource_Fetch_ReadsLocalCapture documents the local file path:
// - A target with a feed extension is read from disk, no network involved
func TestSource_Fetch_ReadsLocalCapture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.xml")
	if err := os.WriteFile(path, []byte(validAtomXML), 0o644); err != nil {
		t.Fatal(err)
	}

	source := NewSource()
	data, err := source.Fetch(context.Background(), path)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != validAtomXML {
		t.Error("expected capture file contents back unchanged")
	}
}

// TestSource_Fetch_MissingCaptureIsUnavailable documents local failure:
// - A nonexistent capture file surfaces as ErrUnavailable
func TestSource_Fetch_MissingCaptureIsUnavailable(t *testing.T) {
	source := NewSource()
	_, err := source.Fetch(context.Background(), filepath.Join(t.TempDir(), "gone.xml"))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

// TestSource_Fetch_HardStatusFailsWithoutRetry documents non-retryable handling:
// - A 404 is permanent; one request, ErrUnavailable
func TestSource_Fetch_HardStatusFailsWithoutRetry(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	source := NewSource(WithBaseURL(server.URL))
	_, err := source.Fetch(context.Background(), "UCtestchannelidtestchan")

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if requests != 1 {
		t.Errorf("expected 1 request for a hard failure, got %d", requests)
	}
}

// TestSource_Fetch_RetriesTransientStatus documents retry behavior:
// - A 503 followed by a 200 succeeds on the second attempt
func TestSource_Fetch_RetriesTransientStatus(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, validAtomXML)
	}))
	defer server.Close()

	source := NewSource(WithBaseURL(server.URL))
	data, err := source.Fetch(context.Background(), "UCtestchannelidtestchan")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requests != 2 {
		t.Errorf("expected 2 requests, got %d", requests)
	}
	if len(data) == 0 {
		t.Error("expected feed bytes after retry")
	}
}

// TestSource_Fetch_GivesUpAfterMaxTries documents the retry cap:
// - With max tries 1, a transient status is not retried
func TestSource_Fetch_GivesUpAfterMaxTries(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	source := NewSource(WithBaseURL(server.URL), WithMaxTries(1))
	_, err := source.Fetch(context.Background(), "UCtestchannelidtestchan")

	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if requests != 1 {
		t.Errorf("expected 1 request with max tries 1, got %d", requests)
	}
}
