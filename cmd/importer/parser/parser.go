package parser

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/advancedlogic/GoOse/pkg/goose"
	"github.com/go-shiori/go-readability"
	"github.com/markusmobius/go-trafilatura"
	nethtml "golang.org/x/net/html"

	"space-traveling/logger"
)

// ParsedArticle is the main content of a page.
type ParsedArticle struct {
	// HTML is the extracted content markup.
	HTML     string
	Text     string
	TopImage string
}

// ErrNoContent is returned when no extractor finds any content.
var ErrNoContent = errors.New("no article content")

// Extract tries readability first, then trafilatura, then GoOse. When the
// winning extractor finds no top image the page's share tags are used.
func Extract(htmlStr, pageURL string) (*ParsedArticle, error) {
	u, _ := url.Parse(pageURL)

	extractors := []struct {
		name string
		fn   func(string, *url.URL) (*ParsedArticle, error)
	}{
		{"readability", ParseHTMLWithReadability},
		{"trafilatura", ParseHTMLWithTrafilatura},
		{"goose", ParseHTMLWithGoose},
	}
	var errs []error
	for _, ex := range extractors {
		article, err := ex.fn(htmlStr, u)
		if err == nil && strings.TrimSpace(article.Text) != "" {
			if article.TopImage == "" {
				article.TopImage = BannerFromMeta(htmlStr, pageURL)
			}
			return article, nil
		}
		if err == nil {
			err = ErrNoContent
		}
		logger.DebugWithFields("extractor failed", logger.Fields{"extractor": ex.name, "url": pageURL, "error": err.Error()})
		errs = append(errs, fmt.Errorf("%s: %w", ex.name, err))
	}
	return nil, errors.Join(errs...)
}

func ParseHTMLWithReadability(htmlStr string, pageURL *url.URL) (*ParsedArticle, error) {
	article, err := readability.FromReader(strings.NewReader(htmlStr), pageURL)
	if err != nil {
		return nil, err
	}
	return &ParsedArticle{
		HTML:     article.Content,
		Text:     article.TextContent,
		TopImage: article.Image,
	}, nil
}

func ParseHTMLWithTrafilatura(htmlStr string, pageURL *url.URL) (*ParsedArticle, error) {
	result, err := trafilatura.Extract(strings.NewReader(htmlStr), trafilatura.Options{
		IncludeImages: true,
		OriginalURL:   pageURL,
	})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if result.ContentNode != nil {
		if err := nethtml.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
	}
	return &ParsedArticle{
		HTML:     buf.String(),
		Text:     result.ContentText,
		TopImage: result.Metadata.Image,
	}, nil
}

// ParseHTMLWithGoose only yields plain text; paragraphs are rebuilt from blank lines.
func ParseHTMLWithGoose(htmlStr string, pageURL *url.URL) (*ParsedArticle, error) {
	raw := ""
	if pageURL != nil {
		raw = pageURL.String()
	}
	article, err := goose.New().ExtractFromRawHTML(htmlStr, raw)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for _, para := range strings.Split(article.CleanedText, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			b.WriteString("<p>" + html.EscapeString(para) + "</p>")
		}
	}
	return &ParsedArticle{
		HTML:     b.String(),
		Text:     article.CleanedText,
		TopImage: article.TopImage,
	}, nil
}
