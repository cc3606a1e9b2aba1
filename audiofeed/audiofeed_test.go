package audiofeed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const feedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:itunes="http://www.itunes.com/dtds/podcast-1.0.dtd">
<channel>
  <title>Daily Mass Readings</title>
  <item>
    <title>December 26, 2025 Readings</title>
    <pubDate>Fri, 26 Dec 2025 05:00:00 GMT</pubDate>
    <enclosure url="https://example.com/audio/122625.mp3" type="audio/mpeg" length="1"/>
    <itunes:duration>05:10</itunes:duration>
  </item>
  <item>
    <title>Readings for December 25, 2025</title>
    <pubDate>Thu, 25 Dec 2025 05:00:00 GMT</pubDate>
    <enclosure url="https://example.com/audio/122525.mp3" type="audio/mpeg" length="1"/>
    <itunes:duration>06:42</itunes:duration>
  </item>
  <item>
    <title>Readings for December 24, 2025</title>
    <pubDate>Wed, 24 Dec 2025 05:00:00 GMT</pubDate>
  </item>
</channel>
</rss>`

func parseFeed(t *testing.T) *gofeed.Feed {
	t.Helper()

	feed, err := gofeed.NewParser().ParseString(feedXML)
	require.NoError(t, err)
	return feed
}

// TestEpisodeForByPubDate verifies an item is matched on its publication
// date and carries the enclosure and duration
func TestEpisodeForByPubDate(t *testing.T) {
	feed := parseFeed(t)

	ep := episodeFor(feed, time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, ep)
	assert.Equal(t, "Readings for December 25, 2025", ep.Title)
	assert.Equal(t, "https://example.com/audio/122525.mp3", ep.AudioURL)
	assert.Equal(t, "06:42", ep.Duration)
}

// TestEpisodeForByTitle verifies an item without a usable pubDate still
// matches on the spelled-out date in its title
func TestEpisodeForByTitle(t *testing.T) {
	feed := parseFeed(t)
	for _, item := range feed.Items {
		item.PublishedParsed = nil
	}

	ep := episodeFor(feed, time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC))
	require.NotNil(t, ep)
	assert.Equal(t, "https://example.com/audio/122625.mp3", ep.AudioURL)
}

// TestEpisodeForMissing verifies dates with no episode, or with an episode
// that has no audio enclosure, resolve to nil
func TestEpisodeForMissing(t *testing.T) {
	feed := parseFeed(t)

	assert.Nil(t, episodeFor(feed, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))

	// December 24 is in the feed but has no enclosure.
	assert.Nil(t, episodeFor(feed, time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)))
}

// TestEpisodeFor verifies the full fetch-and-scan path against a stub feed
// server
func TestEpisodeFor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, feedXML)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL)
	ep, err := c.EpisodeFor(context.Background(), time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, ep)
	assert.Equal(t, "https://example.com/audio/122525.mp3", ep.AudioURL)

	missing, err := c.EpisodeFor(context.Background(), time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, missing)
}

// TestNewDefaultURL verifies an empty URL selects the published feed
func TestNewDefaultURL(t *testing.T) {
	c := New("")
	assert.Equal(t, DefaultFeedURL, c.feedURL)
}
