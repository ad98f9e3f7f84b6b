// Package richtext models the CMS structured-text format and turns it into
// HTML that is safe to inject into a page.
//
// Span offsets are UTF-16 code units, the way the CMS counts them.
package richtext

import (
	"errors"
	"strings"
)

// Block types.
const (
	Paragraph    = "paragraph"
	Heading1     = "heading1"
	Heading2     = "heading2"
	Heading3     = "heading3"
	Heading4     = "heading4"
	Heading5     = "heading5"
	Heading6     = "heading6"
	Preformatted = "preformatted"
	ListItem     = "list-item"
	OListItem    = "o-list-item"
	Image        = "image"
	Embed        = "embed"
)

// Span types.
const (
	Strong    = "strong"
	Em        = "em"
	Label     = "label"
	Hyperlink = "hyperlink"
)

var (
	ErrUnknownBlockType = errors.New("richtext: unknown block type")
	ErrUnknownSpanType  = errors.New("richtext: unknown span type")
	ErrSpanOutOfRange   = errors.New("richtext: span out of range")
	ErrUnsafeURL        = errors.New("richtext: unsafe url")
)

// RichText is an ordered list of blocks.
type RichText []Block

type Block struct {
	Type   string      `json:"type" bson:"type" validate:"required"`
	Text   string      `json:"text,omitempty" bson:"text,omitempty"`
	Spans  []Span      `json:"spans,omitempty" bson:"spans,omitempty"`
	URL    string      `json:"url,omitempty" bson:"url,omitempty"`
	Alt    string      `json:"alt,omitempty" bson:"alt,omitempty"`
	Oembed *EmbedMedia `json:"oembed,omitempty" bson:"oembed,omitempty"`
}

type Span struct {
	Start int       `json:"start" bson:"start"`
	End   int       `json:"end" bson:"end"`
	Type  string    `json:"type" bson:"type"`
	Data  *SpanData `json:"data,omitempty" bson:"data,omitempty"`
}

// SpanData carries hyperlink targets and label names.
type SpanData struct {
	URL    string `json:"url,omitempty" bson:"url,omitempty"`
	Target string `json:"target,omitempty" bson:"target,omitempty"`
	Label  string `json:"label,omitempty" bson:"label,omitempty"`
}

type EmbedMedia struct {
	EmbedURL string `json:"embed_url" bson:"embed_url"`
	Title    string `json:"title,omitempty" bson:"title,omitempty"`
}

// NewBlock is a shorthand for text blocks.
func NewBlock(blockType, text string, spans ...Span) Block {
	return Block{Type: blockType, Text: text, Spans: spans}
}

// AsText returns the plain text of rt, one line per block.
func AsText(rt RichText) string {
	lines := make([]string, 0, len(rt))
	for _, b := range rt {
		switch b.Type {
		case Image:
			if b.Alt != "" {
				lines = append(lines, b.Alt)
			}
		case Embed:
			if b.Oembed != nil && b.Oembed.Title != "" {
				lines = append(lines, b.Oembed.Title)
			}
		default:
			lines = append(lines, b.Text)
		}
	}
	return strings.Join(lines, "\n")
}
