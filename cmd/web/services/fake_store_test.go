package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"space-traveling/models"
)

// fakeStore is an in-memory ContentStore. Documents are returned in
// first publication order unless the query asks for descending order.
type fakeStore struct {
	mu      sync.Mutex
	docs    []models.Document
	err     error
	block   bool
	queries []models.Query
	cursors map[string]models.Query
}

func newFakeStore(docs ...models.Document) *fakeStore {
	return &fakeStore{docs: docs, cursors: map[string]models.Query{}}
}

func (f *fakeStore) wait(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeStore) GetByType(ctx context.Context, docType string, opts models.QueryOptions) (models.Page, error) {
	return f.Get(ctx, models.Query{
		Predicates:   []models.Predicate{models.At(models.PathType, docType)},
		QueryOptions: opts,
	})
}

func (f *fakeStore) GetByUID(ctx context.Context, docType, uid string) (models.Document, error) {
	if err := f.wait(ctx); err != nil {
		return models.Document{}, err
	}
	for _, d := range f.docs {
		if d.Type == docType && d.UID == uid {
			return d, nil
		}
	}
	return models.Document{}, fmt.Errorf("%w: %s", models.ErrNotFound, uid)
}

func (f *fakeStore) Get(ctx context.Context, q models.Query) (models.Page, error) {
	return f.page(ctx, q, 0)
}

func (f *fakeStore) NextPage(ctx context.Context, cursor string) (models.Page, error) {
	f.mu.Lock()
	q, ok := f.cursors[cursor]
	f.mu.Unlock()
	if !ok {
		return models.Page{}, models.ErrInvalidCursor
	}
	offset, _ := strconv.Atoi(strings.TrimPrefix(cursor, "offset-"))
	return f.page(ctx, q, offset)
}

func (f *fakeStore) Health(ctx context.Context) error { return f.err }

func (f *fakeStore) page(ctx context.Context, q models.Query, offset int) (models.Page, error) {
	if err := f.wait(ctx); err != nil {
		return models.Page{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)

	var matched []models.Document
	for _, d := range f.docs {
		ok, err := matches(d, q.Predicates)
		if err != nil {
			return models.Page{}, err
		}
		if ok {
			matched = append(matched, d)
		}
	}
	desc := len(q.Orderings) > 0 && q.Orderings[0].Desc
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := *matched[i].FirstPublicationDate, *matched[j].FirstPublicationDate
		if desc {
			return a.After(b)
		}
		return a.Before(b)
	})

	size := q.PageSize
	if size <= 0 {
		size = 20
	}
	end := min(offset+size, len(matched))
	out := models.Page{Results: append([]models.Document{}, matched[offset:end]...)}
	if end < len(matched) {
		next := fmt.Sprintf("offset-%d", end)
		f.cursors[next] = q
		out.NextPage = &next
	}
	return out, nil
}

func matches(d models.Document, preds []models.Predicate) (bool, error) {
	for _, p := range preds {
		switch {
		case p.Op == models.OpAt && p.Path == models.PathType:
			if d.Type != p.Value {
				return false, nil
			}
		case p.Op == models.OpAt && strings.HasSuffix(p.Path, ".uid"):
			if d.UID != p.Value {
				return false, nil
			}
		case p.Op == models.OpDateBefore || p.Op == models.OpDateAfter:
			t, err := p.Time()
			if err != nil {
				return false, err
			}
			if d.FirstPublicationDate == nil {
				return false, nil
			}
			if p.Op == models.OpDateBefore && !d.FirstPublicationDate.Before(t) {
				return false, nil
			}
			if p.Op == models.OpDateAfter && !d.FirstPublicationDate.After(t) {
				return false, nil
			}
		default:
			return false, fmt.Errorf("unsupported predicate %s(%s)", p.Op, p.Path)
		}
	}
	return true, nil
}

func date(day int) *time.Time {
	t := time.Date(2021, 3, day, 19, 25, 28, 0, time.UTC)
	return &t
}

func post(uid, title string, published *time.Time, content ...models.ContentBlock) models.Document {
	return models.Document{
		UID:                  uid,
		Type:                 "posts",
		FirstPublicationDate: published,
		LastPublicationDate:  published,
		Data: models.PostData{
			Title:   title,
			Author:  "Joseph Oliveira",
			Content: content,
		},
	}
}
