package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"space-traveling/cmd/internal/listing"
	"space-traveling/cmd/internal/notify"
	"space-traveling/cmd/web/dto"
	"space-traveling/logger"
)

type pageSource interface {
	Posts(ctx context.Context, cursor string) (dto.PostPageDTO, error)
}

// browser keeps the displayed page and loads the next one in the background.
type browser struct {
	src      pageSource
	display  *listing.Display[dto.PostPageDTO]
	notifier notify.Notifier
	out      io.Writer
	loc      *time.Location

	mu sync.Mutex // serialises writes to out
	wg sync.WaitGroup
}

func newBrowser(src pageSource, notifier notify.Notifier, out io.Writer, loc *time.Location) *browser {
	return &browser{
		src:      src,
		display:  listing.NewDisplay(dto.PostPageDTO{}),
		notifier: notifier,
		out:      out,
		loc:      loc,
	}
}

// Start loads and prints the first page.
func (b *browser) Start(ctx context.Context) error {
	gen := b.display.Begin()
	page, err := b.src.Posts(ctx, "")
	if err != nil {
		return err
	}
	if b.display.Commit(gen, page) {
		b.print(page)
	}
	return nil
}

// LoadMore fetches the next page asynchronously. The newest request wins;
// on failure the current page stays and a notification is sent.
func (b *browser) LoadMore(ctx context.Context) bool {
	current := b.display.Current()
	if current.NextPage == nil {
		return false
	}
	cursor := *current.NextPage
	gen := b.display.Begin()

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		page, err := b.src.Posts(ctx, cursor)
		if err != nil {
			if !b.display.Fail(gen) {
				return
			}
			logger.DebugWithFields("load more failed", logger.Fields{"error": err.Error()})
			if nerr := b.notifier.Notify(ctx, notify.New(notify.LevelError, "Não foi possível carregar mais posts.")); nerr != nil {
				logger.WarnWithFields("notify failed", logger.Fields{"error": nerr.Error()})
			}
			return
		}
		if b.display.Commit(gen, page) {
			b.print(page)
		}
	}()
	return true
}

// Wait blocks until in-flight loads finish.
func (b *browser) Wait() { b.wg.Wait() }

func (b *browser) print(page dto.PostPageDTO) {
	b.mu.Lock()
	defer b.mu.Unlock()

	fmt.Fprintln(b.out, "----")
	for _, p := range page.Results {
		date := ""
		if p.FirstPublicationDate != nil {
			date = p.FirstPublicationDate.In(b.loc).Format("02/01/2006")
		}
		fmt.Fprintf(b.out, "%s\n  %s\n  %s · %s · /post/%s\n", p.Title, p.Subtitle, date, p.Author, p.UID)
	}
	if page.NextPage != nil {
		fmt.Fprintln(b.out, "[Enter] Carregar mais posts   [q] sair")
	} else {
		fmt.Fprintln(b.out, "[q] sair")
	}
}
