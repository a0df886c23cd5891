package dataflows

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeadlines(t *testing.T) {
	feed := `<?xml version="1.0"?>
	<rss><channel>
		<item>
			<title>Acme beats earnings estimates</title>
			<link>https://example.com/1</link>
			<source url="https://example.com">Example Wire</source>
			<pubDate>Mon, 02 Jan 2006 15:04:05 UTC</pubDate>
		</item>
		<item>
			<title></title>
			<link>https://example.com/skipped</link>
		</item>
		<item>
			<title>Acme faces recall lawsuit</title>
			<link>https://example.com/2</link>
		</item>
	</channel></rss>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(feed))
	require.NoError(t, err)

	headlines := parseHeadlines(doc)
	require.Len(t, headlines, 2, "untitled items are skipped")
	assert.Equal(t, "Acme beats earnings estimates", headlines[0].Title)
	assert.Equal(t, "Example Wire", headlines[0].Source)
	assert.False(t, headlines[0].PublishedAt.IsZero())
	assert.Equal(t, "Acme faces recall lawsuit", headlines[1].Title)
}

func TestScoreSentiment(t *testing.T) {
	positive := []Headline{
		{Title: "Shares surge on record growth"},
		{Title: "Analyst upgrade lifts the stock"},
		{Title: "Quarterly report due next week"},
	}
	s := ScoreSentiment(positive)
	assert.Equal(t, 2, s.Positive)
	assert.Equal(t, 1, s.Neutral)
	assert.Equal(t, "positive", s.Label)
	assert.InDelta(t, 2.0/3.0, s.Score, 1e-9)

	negative := []Headline{
		{Title: "Stock plunges after earnings miss"},
		{Title: "Downgrade follows weak guidance"},
	}
	s = ScoreSentiment(negative)
	assert.Equal(t, 2, s.Negative)
	assert.Equal(t, "negative", s.Label)

	s = ScoreSentiment(nil)
	assert.Equal(t, "neutral", s.Label)
	assert.Zero(t, s.Score)
}
