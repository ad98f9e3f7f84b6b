package parser

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// bannerSelectors are tried in order; the first non-empty value wins.
var bannerSelectors = []struct {
	selector string
	attr     string
}{
	{`meta[property="og:image"]`, "content"},
	{`meta[property="og:image:url"]`, "content"},
	{`meta[property="og:image:secure_url"]`, "content"},
	{`meta[name="twitter:image"]`, "content"},
	{`meta[name="twitter:image:src"]`, "content"},
	{`meta[itemprop="image"]`, "content"},
	{`link[rel="image_src"]`, "href"},
}

// BannerFromMeta finds a page's share image in its head tags. The result is
// resolved against pageURL and is empty unless it is an http(s) URL.
func BannerFromMeta(htmlStr, pageURL string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}
	base, _ := url.Parse(pageURL)

	for _, s := range bannerSelectors {
		v, ok := doc.Find(s.selector).First().Attr(s.attr)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		if resolved := resolveImage(strings.TrimSpace(v), base); resolved != "" {
			return resolved
		}
	}
	return ""
}

func resolveImage(src string, base *url.URL) string {
	u, err := url.Parse(src)
	if err != nil {
		return ""
	}
	if !u.IsAbs() {
		if base == nil {
			return ""
		}
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	return u.String()
}
