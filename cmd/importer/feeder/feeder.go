package feeder

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedItem is one entry of an RSS or Atom feed.
type FeedItem struct {
	Title       string
	Link        string
	Description string
	Author      string
	ImageURL    string
	PublishedAt time.Time
	UpdatedAt   time.Time
}

// UserAgent is sent with feed and article requests. Some blogs behind
// CDNs reject the default Go client user agent.
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// FetchFeed downloads and parses rssURL, returning at most limit items (0 means all).
func FetchFeed(ctx context.Context, client *http.Client, rssURL string, limit int) ([]FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rssURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodySample, _ := io.ReadAll(io.LimitReader(resp.Body, 500))
		return nil, fmt.Errorf("fetch feed %s: status=%d body=%s", rssURL, resp.StatusCode, string(bodySample))
	}

	cleaned, err := cleanControlCharacters(resp.Body)
	if err != nil {
		return nil, err
	}
	feed, err := gofeed.NewParser().Parse(cleaned)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", rssURL, err)
	}

	items := make([]FeedItem, 0, len(feed.Items))
	for _, item := range feed.Items {
		fi := FeedItem{
			Title:       item.Title,
			Link:        item.Link,
			Description: item.Description,
		}
		if item.PublishedParsed != nil {
			fi.PublishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			fi.PublishedAt = *item.UpdatedParsed
		}
		if item.UpdatedParsed != nil {
			fi.UpdatedAt = *item.UpdatedParsed
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			fi.Author = item.Authors[0].Name
		}
		if item.Image != nil {
			fi.ImageURL = item.Image.URL
		}
		items = append(items, fi)
	}

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// XML forbids control characters other than tab, LF and CR.
var invalidControlCharRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)

func cleanControlCharacters(r io.Reader) (io.Reader, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read feed body: %w", err)
	}
	return bytes.NewReader(invalidControlCharRegex.ReplaceAll(b, nil)), nil
}
