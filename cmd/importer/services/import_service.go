package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"space-traveling/cmd/importer/convert"
	"space-traveling/cmd/importer/feeder"
	"space-traveling/cmd/importer/parser"
	"space-traveling/cmd/importer/summarizer"
	"space-traveling/config"
	"space-traveling/logger"
	"space-traveling/models"
)

// DocumentWriter is the write side of the document store.
type DocumentWriter interface {
	ExistsByUID(ctx context.Context, docType, uid string) (bool, error)
	UpsertByUID(ctx context.Context, d *models.Document) (*mongo.UpdateResult, error)
}

// PageFetcher returns the HTML of an article page.
type PageFetcher func(ctx context.Context, pageURL string, render bool) (string, error)

// QuotaLimiter gates summary calls.
type QuotaLimiter interface {
	WaitAndReserve(ctx context.Context) (bool, error)
}

// Report summarizes one import run.
type Report struct {
	Imported int
	Skipped  int
	Failed   int
}

// ImportService turns feed items into posts documents.
type ImportService struct {
	writer     DocumentWriter
	httpClient *http.Client
	fetch      PageFetcher
	summarizer summarizer.Summarizer
	limiter    QuotaLimiter
	docType    string
	itemLimit  int
	now        func() time.Time
}

type Option func(*ImportService)

// WithSummarizer enables generated subtitles, gated by limiter.
func WithSummarizer(s summarizer.Summarizer, limiter QuotaLimiter) Option {
	return func(svc *ImportService) {
		svc.summarizer = s
		svc.limiter = limiter
	}
}

func NewImportService(writer DocumentWriter, httpClient *http.Client, fetch PageFetcher, docType string, itemLimit int, opts ...Option) *ImportService {
	svc := &ImportService{
		writer:     writer,
		httpClient: httpClient,
		fetch:      fetch,
		docType:    docType,
		itemLimit:  itemLimit,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Run imports every configured feed. A failing feed or item is logged and
// counted; it does not stop the run.
func (s *ImportService) Run(ctx context.Context, feeds []config.FeedSource) (Report, error) {
	var report Report
	for _, src := range feeds {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		items, err := feeder.FetchFeed(ctx, s.httpClient, src.RSSURL, s.itemLimit)
		if err != nil {
			logger.ErrorWithFields("fetch feed failed", logger.Fields{"feed": src.Name, "error": err.Error()})
			report.Failed++
			continue
		}
		for _, item := range items {
			imported, err := s.importItem(ctx, src, item)
			switch {
			case err != nil:
				if errors.Is(err, context.Canceled) {
					return report, err
				}
				logger.ErrorWithFields("import item failed", logger.Fields{
					"feed":  src.Name,
					"link":  item.Link,
					"error": err.Error(),
				})
				report.Failed++
			case imported:
				report.Imported++
			default:
				report.Skipped++
			}
		}
	}
	logger.InfoWithFields("import finished", logger.Fields{
		"imported": report.Imported,
		"skipped":  report.Skipped,
		"failed":   report.Failed,
	})
	return report, nil
}

func (s *ImportService) importItem(ctx context.Context, src config.FeedSource, item feeder.FeedItem) (bool, error) {
	uid := convert.Slugify(item.Title)
	if uid == "" {
		return false, fmt.Errorf("title %q yields an empty uid", item.Title)
	}
	exists, err := s.writer.ExistsByUID(ctx, s.docType, uid)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	page, err := s.fetch(ctx, item.Link, src.Render)
	if err != nil {
		return false, fmt.Errorf("fetch page: %w", err)
	}
	article, err := parser.Extract(page, item.Link)
	if err != nil {
		return false, fmt.Errorf("extract: %w", err)
	}
	base, _ := url.Parse(item.Link)
	content, err := convert.ToContentBlocks(article.HTML, base)
	if err != nil {
		return false, err
	}

	published := item.PublishedAt
	if published.IsZero() {
		published = s.now()
	}
	published = published.UTC()
	updated := published
	if item.UpdatedAt.After(published) {
		updated = item.UpdatedAt.UTC()
	}

	author := src.Author
	if author == "" {
		author = item.Author
	}
	banner := item.ImageURL
	if banner == "" {
		banner = article.TopImage
	}

	doc := &models.Document{
		UID:                  uid,
		Type:                 s.docType,
		FirstPublicationDate: &published,
		LastPublicationDate:  &updated,
		Data: models.PostData{
			Title:    strings.TrimSpace(item.Title),
			Subtitle: s.subtitle(ctx, item, article.Text),
			Author:   author,
			Banner:   models.Image{URL: banner},
			Content:  content,
		},
	}
	if _, err := s.writer.UpsertByUID(ctx, doc); err != nil {
		return false, err
	}
	logger.InfoWithFields("post imported", logger.Fields{"uid": uid, "feed": src.Name})
	return true, nil
}

// subtitle prefers a generated summary and falls back to the feed description.
func (s *ImportService) subtitle(ctx context.Context, item feeder.FeedItem, text string) string {
	fallback := plainDescription(item.Description)
	if s.summarizer == nil {
		return fallback
	}
	if s.limiter != nil {
		ok, err := s.limiter.WaitAndReserve(ctx)
		if err != nil || !ok {
			return fallback
		}
	}
	sub, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		logger.WarnWithFields("summary failed, using feed description", logger.Fields{"link": item.Link, "error": err.Error()})
		return fallback
	}
	return sub
}

func plainDescription(desc string) string {
	if !strings.Contains(desc, "<") {
		return strings.TrimSpace(desc)
	}
	blocks, err := convert.ToContentBlocks(desc, nil)
	if err != nil {
		return ""
	}
	var parts []string
	for _, b := range blocks {
		if b.Heading != "" {
			parts = append(parts, b.Heading)
		}
		for _, blk := range b.Body {
			if blk.Text != "" {
				parts = append(parts, blk.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}

// HTTPPageFetcher fetches pages with client, or through render when asked to.
func HTTPPageFetcher(client *http.Client, render func(ctx context.Context, url string) (string, error)) PageFetcher {
	return func(ctx context.Context, pageURL string, useRender bool) (string, error) {
		if useRender && render != nil {
			return render(ctx, pageURL)
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return "", err
		}
		req.Header.Set("User-Agent", feeder.UserAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

		resp, err := client.Do(req)
		if err != nil {
			return "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("fetch %s: status=%d", pageURL, resp.StatusCode)
		}
		b, err := io.ReadAll(io.LimitReader(resp.Body, 5<<20))
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}
