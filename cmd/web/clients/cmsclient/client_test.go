package cmsclient

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-traveling/models"
)

const masterRefJSON = `{"refs":[{"id":"preview","ref":"P","isMasterRef":false},{"id":"master","ref":"YCp-master","label":"Master","isMasterRef":true}]}`

func newTestServer(t *testing.T, search http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v2", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, masterRefJSON)
	})
	mux.HandleFunc("/api/v2/documents/search", search)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "secret", srv.Client())
	require.NoError(t, err)
	return srv, c
}

func TestGetByTypeEncodesQuery(t *testing.T) {
	var srvURL string
	srv, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "YCp-master", q.Get("ref"))
		assert.Equal(t, `[[at(document.type,"posts")]]`, q.Get("q"))
		assert.Equal(t, "posts.title,posts.subtitle", q.Get("fetch"))
		assert.Equal(t, "3", q.Get("pageSize"))
		assert.Equal(t, "secret", q.Get("access_token"))
		assert.Empty(t, q.Get("orderings"))

		fmt.Fprintf(w, `{
			"page": 1,
			"next_page": "%s/api/v2/documents/search?ref=YCp-master&page=2&pageSize=3",
			"results": [
				{"id":"1","uid":"como-utilizar-hooks","type":"posts",
				 "first_publication_date":"2021-03-15T19:25:28+0000",
				 "last_publication_date":"2021-03-25T19:25:28+0000",
				 "data":{"title":"Como utilizar Hooks","subtitle":"Pensando em sincronização","author":"Joseph Oliveira"}},
				{"id":"2","uid":"broken","type":"posts","data":{}}
			]
		}`, srvURL)
	})
	srvURL = srv.URL

	page, err := c.GetByType(context.Background(), "posts", models.QueryOptions{
		Fetch:    []string{"uid", "posts.title", "posts.subtitle"},
		PageSize: 3,
	})
	require.NoError(t, err)
	require.Len(t, page.Results, 1, "malformed document is skipped")
	require.NotNil(t, page.NextPage)
	assert.Contains(t, *page.NextPage, "page=2")

	doc := page.Results[0]
	assert.Equal(t, "como-utilizar-hooks", doc.UID)
	assert.Equal(t, "Como utilizar Hooks", doc.Data.Title)
	require.NotNil(t, doc.FirstPublicationDate)
	assert.True(t, doc.FirstPublicationDate.Equal(time.Date(2021, 3, 15, 19, 25, 28, 0, time.UTC)))
}

func TestGetEncodesDatePredicateAndOrdering(t *testing.T) {
	ref := time.Date(2021, 3, 25, 19, 25, 28, 0, time.UTC)
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		want := fmt.Sprintf(`[[at(document.type,"posts")][date.before(document.first_publication_date,%d)]]`, ref.UnixMilli())
		assert.Equal(t, want, q.Get("q"))
		assert.Equal(t, "[document.first_publication_date desc]", q.Get("orderings"))
		fmt.Fprint(w, `{"results":[],"next_page":null}`)
	})

	page, err := c.Get(context.Background(), models.Query{
		Predicates: []models.Predicate{
			models.At(models.PathType, "posts"),
			models.DateBefore(models.PathFirstPublicationDate, ref),
		},
		QueryOptions: models.QueryOptions{
			PageSize:  1,
			Orderings: []models.Ordering{{Path: models.PathFirstPublicationDate, Desc: true}},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, page.Results)
	assert.Nil(t, page.NextPage)
}

func TestNextPage(t *testing.T) {
	srv, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "secret", r.URL.Query().Get("access_token"))
		fmt.Fprint(w, `{"results":[{"uid":"a","type":"posts","data":{"title":"A"}}],"next_page":null}`)
	})

	page, err := c.NextPage(context.Background(), srv.URL+"/api/v2/documents/search?ref=YCp-master&page=2")
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
	assert.Nil(t, page.NextPage)
}

func TestNextPageRejectsForeignHost(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("foreign cursor must not reach the store")
	})

	for _, cursor := range []string{
		"https://evil.example.com/api/v2/documents/search?page=2",
		"%zz",
		"",
	} {
		_, err := c.NextPage(context.Background(), cursor)
		assert.ErrorIs(t, err, models.ErrInvalidCursor, cursor)
	}
}

func TestGetByUID(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		if q == `[[at(document.type,"posts")][at(my.posts.uid,"missing")]]` {
			fmt.Fprint(w, `{"results":[]}`)
			return
		}
		assert.Equal(t, `[[at(document.type,"posts")][at(my.posts.uid,"como-utilizar-hooks")]]`, q)
		fmt.Fprint(w, `{"results":[{"uid":"como-utilizar-hooks","type":"posts","data":{"title":"Como utilizar Hooks",
			"content":[{"heading":"Proin et varius","body":[{"type":"paragraph","text":"Nullam dolor sapien","spans":[]}]}]}}]}`)
	})

	doc, err := c.GetByUID(context.Background(), "posts", "como-utilizar-hooks")
	require.NoError(t, err)
	require.Len(t, doc.Data.Content, 1)
	assert.Equal(t, "Proin et varius", doc.Data.Content[0].Heading)
	assert.Equal(t, "Nullam dolor sapien", doc.Data.Content[0].Body[0].Text)

	_, err = c.GetByUID(context.Background(), "posts", "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestStatusError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.GetByType(context.Background(), "posts", models.QueryOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=500")
}

func TestHealth(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	assert.NoError(t, c.Health(context.Background()))
}

func TestNewRejectsRelativeEndpoint(t *testing.T) {
	_, err := New("spacetraveling.cdn.prismic.io", "", nil)
	assert.Error(t, err)
}
