package models

import (
	"errors"
	"time"

	"space-traveling/richtext"
)

var (
	// ErrNotFound is returned when no document matches a uid.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidCursor is returned for continuation cursors the store did not issue.
	ErrInvalidCursor = errors.New("invalid page cursor")
	// ErrMalformedDocument is returned when a document fails schema validation.
	ErrMalformedDocument = errors.New("malformed document")
)

// Document is a CMS document after validation at the store boundary.
// Collection: documents
type Document struct {
	ID                   string     `bson:"-" json:"id"`
	UID                  string     `bson:"uid" json:"uid" validate:"required"`
	Type                 string     `bson:"type" json:"type" validate:"required"`
	FirstPublicationDate *time.Time `bson:"first_publication_date" json:"first_publication_date"`
	LastPublicationDate  *time.Time `bson:"last_publication_date" json:"last_publication_date"`
	Data                 PostData   `bson:"data" json:"data"`
}

// PostData is the typed payload of a "posts" document.
type PostData struct {
	Title    string         `bson:"title" json:"title" validate:"required"`
	Subtitle string         `bson:"subtitle,omitempty" json:"subtitle"`
	Author   string         `bson:"author,omitempty" json:"author"`
	Banner   Image          `bson:"banner,omitempty" json:"banner"`
	Content  []ContentBlock `bson:"content,omitempty" json:"content" validate:"dive"`
}

type Image struct {
	URL string `bson:"url,omitempty" json:"url" validate:"omitempty,url"`
	Alt string `bson:"alt,omitempty" json:"alt"`
}

// ContentBlock is one heading + body group of a post.
type ContentBlock struct {
	Heading string            `bson:"heading" json:"heading"`
	Body    richtext.RichText `bson:"body" json:"body" validate:"dive"`
}

// Page is one page of query results. NextPage is nil on the last page.
type Page struct {
	Results  []Document
	NextPage *string
}
