// Package audiofeed locates the audio recording for a date's readings in
// the source site's daily readings podcast feed.
package audiofeed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/pevans/lectio/mass"
)

// DefaultFeedURL is the daily readings podcast feed.
const DefaultFeedURL = "https://bible.usccb.org/podcasts/audio/daily-mass-readings.rss"

// Episode is one podcast entry: the audio enclosure for a date's readings.
type Episode struct {
	Title    string
	AudioURL string
	Duration string
}

// Client fetches and scans the podcast feed. The gofeed parser handles both
// RSS and Atom transparently.
type Client struct {
	parser  *gofeed.Parser
	feedURL string
}

// New creates a feed client for the given feed URL; an empty URL selects
// the default daily readings feed.
func New(feedURL string) *Client {
	if feedURL == "" {
		feedURL = DefaultFeedURL
	}
	return &Client{
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
	}
}

// EpisodeFor returns the podcast episode published for the given date, or
// (nil, nil) when the feed has no entry for it. Recordings often lag the
// published text, so absence is not an error.
func (c *Client) EpisodeFor(ctx context.Context, date time.Time) (*Episode, error) {
	feed, err := c.parser.ParseURLWithContext(c.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching audio feed: %w", err)
	}
	return episodeFor(feed, date), nil
}

// episodeFor scans a parsed feed for the item matching a civil date, either
// by publication date or by the spelled-out date in the item title.
func episodeFor(feed *gofeed.Feed, date time.Time) *Episode {
	want := mass.NormalizeDate(date)
	spelled := want.Format("January 2, 2006")

	for _, item := range feed.Items {
		matched := false
		if item.PublishedParsed != nil && mass.NormalizeDate(*item.PublishedParsed).Equal(want) {
			matched = true
		}
		if !matched && strings.Contains(item.Title, spelled) {
			matched = true
		}
		if !matched {
			continue
		}

		ep := &Episode{Title: item.Title}
		for _, enc := range item.Enclosures {
			if strings.HasPrefix(enc.Type, "audio/") || enc.Type == "" {
				ep.AudioURL = enc.URL
				break
			}
		}
		if item.ITunesExt != nil {
			ep.Duration = item.ITunesExt.Duration
		}
		if ep.AudioURL == "" {
			continue
		}
		return ep
	}
	return nil
}
