package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-traveling/models"
)

func fivePosts() *fakeStore {
	var docs []models.Document
	for i := 1; i <= 5; i++ {
		docs = append(docs, post(fmt.Sprintf("post-%d", i), fmt.Sprintf("Post %d", i), date(i)))
	}
	return newFakeStore(docs...)
}

func TestListingPagination(t *testing.T) {
	store := fivePosts()
	svc := NewListingService(store, "posts", 3)
	ctx := context.Background()

	first, err := svc.FetchInitial(ctx)
	require.NoError(t, err)
	require.Len(t, first.Results, 3)
	require.NotNil(t, first.NextPage)
	assert.Equal(t, "post-1", first.Results[0].UID)

	second, err := svc.FetchNext(ctx, *first.NextPage)
	require.NoError(t, err)
	assert.Len(t, second.Results, 2, "next page replaces the previous one")
	assert.Nil(t, second.NextPage)
	assert.Equal(t, []string{"post-4", "post-5"}, []string{second.Results[0].UID, second.Results[1].UID})
}

func TestListingRequestsSummaryFields(t *testing.T) {
	store := fivePosts()
	_, err := NewListingService(store, "posts", 3).FetchInitial(context.Background())
	require.NoError(t, err)

	require.Len(t, store.queries, 1)
	q := store.queries[0]
	assert.Equal(t, 3, q.PageSize)
	assert.Equal(t, []string{"uid", "posts.title", "posts.subtitle", "posts.author", "last_publication_date"}, q.Fetch)
	assert.Equal(t, []models.Predicate{models.At(models.PathType, "posts")}, q.Predicates)
}

func TestListingSummaryMapping(t *testing.T) {
	d := post("como-utilizar-hooks", "Como utilizar Hooks", date(15))
	d.Data.Subtitle = "Pensando em sincronização em vez de ciclos de vida"
	page, err := NewListingService(newFakeStore(d), "posts", 3).FetchInitial(context.Background())
	require.NoError(t, err)

	require.Len(t, page.Results, 1)
	got := page.Results[0]
	assert.Equal(t, "Como utilizar Hooks", got.Title)
	assert.Equal(t, "Pensando em sincronização em vez de ciclos de vida", got.Subtitle)
	assert.Equal(t, "Joseph Oliveira", got.Author)
	assert.Equal(t, date(15), got.FirstPublicationDate)
	assert.Nil(t, page.NextPage)
}

func TestListingErrors(t *testing.T) {
	store := fivePosts()
	store.err = errors.New("connection refused")
	svc := NewListingService(store, "posts", 3)

	_, err := svc.FetchInitial(context.Background())
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	store.err = nil
	_, err = svc.FetchNext(context.Background(), "made-up")
	assert.ErrorIs(t, err, ErrInvalidCursor)
	assert.ErrorIs(t, err, models.ErrInvalidCursor)
}
