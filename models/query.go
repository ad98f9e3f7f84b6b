package models

import (
	"fmt"
	"strings"
	"time"
)

// Document paths understood by every store.
const (
	PathType                 = "document.type"
	PathFirstPublicationDate = "document.first_publication_date"
)

// Predicate operators.
const (
	OpAt         = "at"
	OpDateBefore = "date.before"
	OpDateAfter  = "date.after"
)

// Predicate is a single query condition. Dates are carried as RFC 3339 strings
// so a predicate survives being encoded into a cursor.
type Predicate struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

func At(path, value string) Predicate {
	return Predicate{Op: OpAt, Path: path, Value: value}
}

func DateBefore(path string, t time.Time) Predicate {
	return Predicate{Op: OpDateBefore, Path: path, Value: t.UTC().Format(time.RFC3339Nano)}
}

func DateAfter(path string, t time.Time) Predicate {
	return Predicate{Op: OpDateAfter, Path: path, Value: t.UTC().Format(time.RFC3339Nano)}
}

// UIDPath returns the path of the uid field of a custom type ("my.posts.uid").
func UIDPath(docType string) string {
	return "my." + docType + ".uid"
}

// Time parses the value of a date predicate.
func (p Predicate) Time() (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, p.Value)
	if err != nil {
		return time.Time{}, fmt.Errorf("predicate %s(%s): %w", p.Op, p.Path, err)
	}
	return t, nil
}

// Ordering sorts results by a document path.
type Ordering struct {
	Path string `json:"path"`
	Desc bool   `json:"desc,omitempty"`
}

func (o Ordering) String() string {
	if o.Desc {
		return o.Path + " desc"
	}
	return o.Path
}

// QueryOptions are shared by every list query.
// Fetch restricts data fields ("posts.title"); document metadata such as uid
// and publication dates is always returned.
type QueryOptions struct {
	Fetch     []string   `json:"fetch,omitempty"`
	PageSize  int        `json:"page_size,omitempty"`
	Orderings []Ordering `json:"orderings,omitempty"`
}

// Query is a predicate search.
type Query struct {
	Predicates []Predicate `json:"predicates"`
	QueryOptions
}

// DataFields returns the data field names selected by Fetch for docType,
// skipping metadata entries such as "uid".
func (o QueryOptions) DataFields(docType string) []string {
	var out []string
	for _, f := range o.Fetch {
		typ, field, ok := strings.Cut(f, ".")
		if !ok {
			continue
		}
		if docType != "" && typ != docType {
			continue
		}
		out = append(out, field)
	}
	return out
}
