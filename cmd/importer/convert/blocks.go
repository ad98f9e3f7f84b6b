package convert

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"space-traveling/models"
	"space-traveling/richtext"
)

// ToContentBlocks splits article markup into heading + body groups.
// Every h1, h2 or h3 opens a new group; content before the first heading
// goes into a group with an empty heading. base resolves relative links.
func ToContentBlocks(articleHTML string, base *url.URL) ([]models.ContentBlock, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(articleHTML))
	if err != nil {
		return nil, fmt.Errorf("parse article html: %w", err)
	}

	c := &converter{base: base}
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		c.walk(s.Contents())
	})
	c.flush()
	return c.out, nil
}

type converter struct {
	base    *url.URL
	out     []models.ContentBlock
	heading string
	body    richtext.RichText
	open    bool
}

func (c *converter) flush() {
	if !c.open && len(c.body) == 0 {
		return
	}
	c.out = append(c.out, models.ContentBlock{Heading: c.heading, Body: c.body})
	c.heading, c.body, c.open = "", nil, false
}

func (c *converter) walk(nodes *goquery.Selection) {
	nodes.Each(func(_ int, s *goquery.Selection) {
		n := s.Get(0)
		if n.Type == html.TextNode {
			if text := collapse(n.Data); strings.TrimSpace(text) != "" {
				c.body = append(c.body, richtext.NewBlock(richtext.Paragraph, strings.TrimSpace(text)))
			}
			return
		}
		if n.Type != html.ElementNode {
			return
		}

		switch goquery.NodeName(s) {
		case "h1", "h2", "h3":
			c.flush()
			c.heading = strings.TrimSpace(collapse(s.Text()))
			c.open = true
		case "h4":
			c.inline(s, richtext.Heading4)
		case "h5":
			c.inline(s, richtext.Heading5)
		case "h6":
			c.inline(s, richtext.Heading6)
		case "p", "blockquote", "figcaption":
			c.inline(s, richtext.Paragraph)
		case "pre":
			if text := strings.TrimRight(s.Text(), "\n"); text != "" {
				c.body = append(c.body, richtext.NewBlock(richtext.Preformatted, text))
			}
		case "ul", "ol":
			typ := richtext.ListItem
			if goquery.NodeName(s) == "ol" {
				typ = richtext.OListItem
			}
			s.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
				c.inline(li, typ)
			})
		case "img":
			c.image(s)
		case "script", "style", "noscript", "iframe", "svg", "form", "button", "nav":
		default:
			c.walk(s.Contents())
		}
	})
}

func (c *converter) image(s *goquery.Selection) {
	src, ok := s.Attr("src")
	if !ok {
		return
	}
	abs := c.resolve(src)
	if !strings.HasPrefix(abs, "http://") && !strings.HasPrefix(abs, "https://") {
		return
	}
	alt, _ := s.Attr("alt")
	c.body = append(c.body, richtext.Block{Type: richtext.Image, URL: abs, Alt: alt})
}

func (c *converter) resolve(ref string) string {
	if c.base == nil {
		return ref
	}
	u, err := c.base.Parse(ref)
	if err != nil {
		return ref
	}
	return u.String()
}

// inline converts s into one block, keeping bold, italic, code and links as spans.
func (c *converter) inline(s *goquery.Selection, blockType string) {
	b := &spanBuilder{resolve: c.resolve}
	for _, n := range s.Nodes {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			b.node(child)
		}
	}
	text, spans := b.result()
	if text == "" {
		// an image wrapped in a paragraph is common
		s.Find("img").Each(func(_ int, img *goquery.Selection) { c.image(img) })
		return
	}
	c.body = append(c.body, richtext.NewBlock(blockType, text, spans...))
}

type spanBuilder struct {
	resolve func(string) string
	text    strings.Builder
	units   int
	spans   []richtext.Span
}

func (b *spanBuilder) write(s string) {
	s = collapse(s)
	if s == "" {
		return
	}
	if cur := b.text.String(); cur == "" || strings.HasSuffix(cur, " ") || strings.HasSuffix(cur, "\n") {
		s = strings.TrimLeft(s, " ")
	}
	if s == "" {
		return
	}
	b.text.WriteString(s)
	b.units += utf16Len(s)
}

func (b *spanBuilder) node(n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.write(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	if n.Data == "br" {
		b.text.WriteString("\n")
		b.units++
		return
	}

	start := b.units
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		b.node(child)
	}
	end := b.units
	if end == start {
		return
	}

	var span *richtext.Span
	switch n.Data {
	case "strong", "b":
		span = &richtext.Span{Type: richtext.Strong}
	case "em", "i":
		span = &richtext.Span{Type: richtext.Em}
	case "code":
		span = &richtext.Span{Type: richtext.Label, Data: &richtext.SpanData{Label: "codespan"}}
	case "a":
		for _, attr := range n.Attr {
			if attr.Key == "href" && attr.Val != "" {
				span = &richtext.Span{Type: richtext.Hyperlink, Data: &richtext.SpanData{URL: b.resolve(attr.Val)}}
			}
		}
	}
	if span != nil {
		span.Start, span.End = start, end
		b.spans = append(b.spans, *span)
	}
}

// result trims trailing whitespace and clamps spans to the trimmed text.
func (b *spanBuilder) result() (string, []richtext.Span) {
	full := b.text.String()
	text := strings.TrimRightFunc(full, unicode.IsSpace)
	units := b.units - utf16Len(full[len(text):])

	spans := b.spans[:0]
	for _, sp := range b.spans {
		sp.End = min(sp.End, units)
		if sp.Start < sp.End {
			spans = append(spans, sp)
		}
	}
	return text, spans
}

// collapse turns every whitespace run into a single space.
func collapse(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		b.WriteRune(r)
	}
	if space {
		b.WriteByte(' ')
	}
	return b.String()
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r >= 0x10000 {
			n += 2
		} else {
			n++
		}
	}
	return n
}
