package richtext

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"unicode/utf16"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// AsHTML renders rt as HTML. Text and attributes are escaped by the html
// renderer; links with a scheme other than http, https or mailto are dropped.
// Consecutive list items share one ul/ol.
func AsHTML(rt RichText) (string, error) {
	var buf strings.Builder

	var list *html.Node
	flush := func() error {
		if list == nil {
			return nil
		}
		err := html.Render(&buf, list)
		list = nil
		return err
	}

	for i, b := range rt {
		if b.Type == ListItem || b.Type == OListItem {
			tag := "ul"
			if b.Type == OListItem {
				tag = "ol"
			}
			if list != nil && list.Data != tag {
				if err := flush(); err != nil {
					return "", err
				}
			}
			if list == nil {
				list = element(tag)
			}
			li := element("li")
			if err := appendInline(li, b.Text, b.Spans); err != nil {
				return "", fmt.Errorf("block %d: %w", i, err)
			}
			list.AppendChild(li)
			continue
		}

		if err := flush(); err != nil {
			return "", err
		}
		node, err := blockNode(b)
		if err != nil {
			return "", fmt.Errorf("block %d: %w", i, err)
		}
		if err := html.Render(&buf, node); err != nil {
			return "", err
		}
	}
	if err := flush(); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func blockNode(b Block) (*html.Node, error) {
	var tag string
	switch b.Type {
	case Paragraph:
		tag = "p"
	case Heading1, Heading2, Heading3, Heading4, Heading5, Heading6:
		tag = "h" + strings.TrimPrefix(b.Type, "heading")
	case Preformatted:
		tag = "pre"
	case Image:
		src, ok := safeURL(b.URL)
		if !ok || src == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnsafeURL, b.URL)
		}
		p := element("p", html.Attribute{Key: "class", Val: "block-img"})
		p.AppendChild(element("img",
			html.Attribute{Key: "src", Val: src},
			html.Attribute{Key: "alt", Val: b.Alt},
		))
		return p, nil
	case Embed:
		if b.Oembed == nil {
			return nil, fmt.Errorf("%w: embed without oembed", ErrUnknownBlockType)
		}
		href, ok := safeURL(b.Oembed.EmbedURL)
		if !ok || href == "" {
			return nil, fmt.Errorf("%w: %q", ErrUnsafeURL, b.Oembed.EmbedURL)
		}
		div := element("div", html.Attribute{Key: "class", Val: "embed"})
		a := element("a",
			html.Attribute{Key: "href", Val: href},
			html.Attribute{Key: "rel", Val: "noopener noreferrer"},
		)
		label := b.Oembed.Title
		if label == "" {
			label = href
		}
		a.AppendChild(&html.Node{Type: html.TextNode, Data: label})
		div.AppendChild(a)
		return div, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlockType, b.Type)
	}

	n := element(tag)
	if err := appendInline(n, b.Text, b.Spans); err != nil {
		return nil, err
	}
	return n, nil
}

type openSpan struct {
	idx  int
	node *html.Node
}

// appendInline appends text to parent, wrapping each stretch in the spans
// that cover it. Spans are opened outermost first (start asc, end desc); an
// overlapping span is closed and reopened so the output always nests.
func appendInline(parent *html.Node, text string, spans []Span) error {
	units := utf16.Encode([]rune(text))
	n := len(units)

	order := make([]int, 0, len(spans))
	bounds := map[int]struct{}{0: {}, n: {}}
	for i, s := range spans {
		if s.Start < 0 || s.End > n || s.Start > s.End {
			return fmt.Errorf("%w: [%d,%d) of %d", ErrSpanOutOfRange, s.Start, s.End, n)
		}
		switch s.Type {
		case Strong, Em, Label, Hyperlink:
		default:
			return fmt.Errorf("%w: %q", ErrUnknownSpanType, s.Type)
		}
		if s.Start == s.End {
			continue
		}
		order = append(order, i)
		bounds[s.Start] = struct{}{}
		bounds[s.End] = struct{}{}
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := spans[order[a]], spans[order[b]]
		if sa.Start != sb.Start {
			return sa.Start < sb.Start
		}
		return sa.End > sb.End
	})

	cuts := make([]int, 0, len(bounds))
	for p := range bounds {
		cuts = append(cuts, p)
	}
	sort.Ints(cuts)

	var stack []openSpan
	for c := 0; c+1 < len(cuts); c++ {
		from, to := cuts[c], cuts[c+1]

		var active []int
		for _, i := range order {
			if spans[i].Start <= from && spans[i].End >= to {
				active = append(active, i)
			}
		}

		keep := 0
		for keep < len(stack) && keep < len(active) && stack[keep].idx == active[keep] {
			keep++
		}
		stack = stack[:keep]

		current := parent
		if keep > 0 {
			current = stack[keep-1].node
		}
		for _, i := range active[keep:] {
			node := spanNode(spans[i])
			current.AppendChild(node)
			stack = append(stack, openSpan{idx: i, node: node})
			current = node
		}

		appendText(current, string(utf16.Decode(units[from:to])))
	}
	return nil
}

func spanNode(s Span) *html.Node {
	switch s.Type {
	case Strong:
		return element("strong")
	case Em:
		return element("em")
	case Label:
		label := ""
		if s.Data != nil {
			label = s.Data.Label
		}
		return element("span", html.Attribute{Key: "class", Val: label})
	}

	// hyperlink
	if s.Data != nil {
		if href, ok := safeURL(s.Data.URL); ok && href != "" {
			attrs := []html.Attribute{{Key: "href", Val: href}}
			if s.Data.Target != "" {
				attrs = append(attrs,
					html.Attribute{Key: "target", Val: s.Data.Target},
					html.Attribute{Key: "rel", Val: "noopener noreferrer"},
				)
			}
			return element("a", attrs...)
		}
	}
	return element("span")
}

func appendText(parent *html.Node, text string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if i > 0 {
			parent.AppendChild(element("br"))
		}
		if line != "" {
			parent.AppendChild(&html.Node{Type: html.TextNode, Data: line})
		}
	}
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

// safeURL accepts relative, http, https and mailto URLs.
func safeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https", "mailto":
		return u.String(), true
	}
	return "", false
}
