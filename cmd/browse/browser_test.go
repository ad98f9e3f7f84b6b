package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-traveling/cmd/internal/notify"
	"space-traveling/cmd/web/dto"
	"space-traveling/logger"
)

type scriptedSource struct {
	mu      sync.Mutex
	pages   map[string]dto.PostPageDTO
	errs    map[string]error
	release map[string]chan struct{}
}

func (s *scriptedSource) Posts(ctx context.Context, cursor string) (dto.PostPageDTO, error) {
	s.mu.Lock()
	wait := s.release[cursor]
	s.mu.Unlock()
	if wait != nil {
		<-wait
	}
	if err := s.errs[cursor]; err != nil {
		return dto.PostPageDTO{}, err
	}
	return s.pages[cursor], nil
}

func strPtr(s string) *string { return &s }

func TestBrowserLoadMoreReplacesPage(t *testing.T) {
	src := &scriptedSource{pages: map[string]dto.PostPageDTO{
		"":   {Results: []dto.PostSummaryDTO{{UID: "a", Title: "A"}}, NextPage: strPtr("c2")},
		"c2": {Results: []dto.PostSummaryDTO{{UID: "b", Title: "B"}}},
	}}
	var out bytes.Buffer
	b := newBrowser(src, notify.NewChannelNotifier(1), &out, time.UTC)

	require.NoError(t, b.Start(context.Background()))
	require.True(t, b.LoadMore(context.Background()))
	b.Wait()

	current := b.display.Current()
	require.Len(t, current.Results, 1)
	assert.Equal(t, "b", current.Results[0].UID)
	assert.Nil(t, current.NextPage)
	assert.False(t, b.LoadMore(context.Background()), "no cursor left")
	assert.Contains(t, out.String(), "/post/b")
}

func TestBrowserFailureKeepsPageAndNotifies(t *testing.T) {
	first := dto.PostPageDTO{Results: []dto.PostSummaryDTO{{UID: "a"}}, NextPage: strPtr("c2")}
	src := &scriptedSource{
		pages: map[string]dto.PostPageDTO{"": first},
		errs:  map[string]error{"c2": errors.New("status=502")},
	}
	toasts := notify.NewChannelNotifier(1)
	b := newBrowser(src, toasts, &bytes.Buffer{}, time.UTC)

	require.NoError(t, b.Start(context.Background()))
	b.LoadMore(context.Background())
	b.Wait()

	assert.Equal(t, first, b.display.Current())
	require.Len(t, toasts.C(), 1)
	assert.Equal(t, notify.LevelError, (<-toasts.C()).Level)
}

func TestBrowserStaleResponseIsDropped(t *testing.T) {
	slow := make(chan struct{})
	src := &scriptedSource{
		pages: map[string]dto.PostPageDTO{
			"":   {Results: []dto.PostSummaryDTO{{UID: "a"}}, NextPage: strPtr("c2")},
			"c2": {Results: []dto.PostSummaryDTO{{UID: "stale"}}},
		},
		release: map[string]chan struct{}{"c2": slow},
	}
	b := newBrowser(src, notify.NewChannelNotifier(1), &bytes.Buffer{}, time.UTC)
	require.NoError(t, b.Start(context.Background()))

	// two overlapping requests for the same cursor; only the second may commit
	b.LoadMore(context.Background())
	b.display.Begin()
	close(slow)
	b.Wait()

	assert.Equal(t, "a", b.display.Current().Results[0].UID)
}

func TestAPIClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/posts", r.URL.Path)
		if r.URL.Query().Get("cursor") == "bad" {
			http.Error(w, `{"error":"invalid_cursor"}`, http.StatusBadRequest)
			return
		}
		w.Write([]byte(`{"results":[{"uid":"a","title":"A"}],"next_page":null}`))
	}))
	defer srv.Close()

	c := newAPIClient(srv.URL, srv.Client())
	page, err := c.Posts(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "A", page.Results[0].Title)

	_, err = c.Posts(context.Background(), "bad")
	assert.ErrorContains(t, err, "status=400")
}

type warnRecorder struct {
	mu    sync.Mutex
	warns []string
}

func (w *warnRecorder) Debug(...any)          {}
func (w *warnRecorder) Info(...any)           {}
func (w *warnRecorder) Error(...any)          {}
func (w *warnRecorder) Debugf(string, ...any) {}
func (w *warnRecorder) Infof(string, ...any)  {}
func (w *warnRecorder) Warnf(string, ...any)  {}
func (w *warnRecorder) Errorf(string, ...any) {}
func (w *warnRecorder) Warn(args ...any) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warns = append(w.warns, fmt.Sprint(args...))
}

func TestBrowserLogsDroppedToast(t *testing.T) {
	rec := &warnRecorder{}
	prev := logger.Log
	logger.Log = rec
	t.Cleanup(func() { logger.Log = prev })

	src := &scriptedSource{
		pages: map[string]dto.PostPageDTO{"": {Results: []dto.PostSummaryDTO{{UID: "a"}}, NextPage: strPtr("c2")}},
		errs:  map[string]error{"c2": errors.New("status=502")},
	}
	toasts := notify.NewChannelNotifier(1)
	require.NoError(t, toasts.Notify(context.Background(), notify.New(notify.LevelInfo, "pending")))

	b := newBrowser(src, toasts, &bytes.Buffer{}, time.UTC)
	require.NoError(t, b.Start(context.Background()))
	b.LoadMore(context.Background())
	b.Wait()

	assert.Equal(t, []string{"notify failed"}, rec.warns)
}
