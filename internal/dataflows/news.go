package dataflows

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// HeadlineClient scrapes recent news headlines for a symbol
type HeadlineClient struct {
	client *resty.Client
	cache  *CacheManager
}

// NewHeadlineClient creates a new headline scraper
func NewHeadlineClient(config *Config) *HeadlineClient {
	cacheDir := filepath.Join(config.DataCacheDir, "headlines")
	cache := NewCacheManager(cacheDir, 2*time.Hour, config.CacheEnabled)

	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; ArenaGo/1.0)")

	return &HeadlineClient{
		client: client,
		cache:  cache,
	}
}

// GetHeadlines fetches up to maxResults recent headlines for a query from
// the Google News RSS feed.
func (hc *HeadlineClient) GetHeadlines(query string, maxResults int) ([]Headline, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query cannot be empty")
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	var cached []Headline
	if hc.cache.Get("google_news", "rss", query, &cached) {
		return cached, nil
	}

	feedURL := fmt.Sprintf("https://news.google.com/rss/search?q=%s&hl=en-US&gl=US&ceid=US:en",
		url.QueryEscape(query+" stock"))

	var result []Headline
	err := WithRetry(DefaultRetryConfig(), func() error {
		resp, err := hc.client.R().Get(feedURL)
		if err != nil {
			return fmt.Errorf("failed to fetch news feed: %w", err)
		}
		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d when fetching news feed", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
		if err != nil {
			return fmt.Errorf("failed to parse news feed: %w", err)
		}

		result = parseHeadlines(doc)
		if len(result) > maxResults {
			result = result[:maxResults]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	hc.cache.Set("google_news", "rss", query, result)
	return result, nil
}

func parseHeadlines(doc *goquery.Document) []Headline {
	var headlines []Headline

	doc.Find("item").Each(func(_ int, item *goquery.Selection) {
		title := strings.TrimSpace(item.Find("title").First().Text())
		if title == "" {
			return
		}

		h := Headline{
			Title:  title,
			URL:    strings.TrimSpace(item.Find("link").First().Text()),
			Source: strings.TrimSpace(item.Find("source").First().Text()),
		}
		if pub := strings.TrimSpace(item.Find("pubDate").First().Text()); pub != "" {
			if t, err := time.Parse(time.RFC1123, pub); err == nil {
				h.PublishedAt = t
			}
		}
		headlines = append(headlines, h)
	})

	return headlines
}

var (
	positiveWords = []string{
		"beat", "beats", "surge", "soar", "soars", "rally", "upgrade", "upgraded",
		"record", "growth", "strong", "bullish", "gain", "gains", "jump", "outperform",
	}
	negativeWords = []string{
		"miss", "misses", "fall", "falls", "plunge", "drop", "drops", "downgrade",
		"downgraded", "weak", "bearish", "loss", "losses", "lawsuit", "recall", "cut",
	}
)

// ScoreSentiment tallies positive/negative words across headlines into a
// summary with a score in [-1, 1].
func ScoreSentiment(headlines []Headline) *SentimentSummary {
	s := &SentimentSummary{}

	for _, h := range headlines {
		title := strings.ToLower(h.Title)
		pos, neg := 0, 0
		for _, w := range positiveWords {
			if strings.Contains(title, w) {
				pos++
			}
		}
		for _, w := range negativeWords {
			if strings.Contains(title, w) {
				neg++
			}
		}
		switch {
		case pos > neg:
			s.Positive++
		case neg > pos:
			s.Negative++
		default:
			s.Neutral++
		}
	}

	total := s.Positive + s.Negative + s.Neutral
	if total > 0 {
		s.Score = float64(s.Positive-s.Negative) / float64(total)
	}
	switch {
	case s.Score > 0.15:
		s.Label = "positive"
	case s.Score < -0.15:
		s.Label = "negative"
	default:
		s.Label = "neutral"
	}
	return s
}
