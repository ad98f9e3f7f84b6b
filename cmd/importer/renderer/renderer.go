package renderer

import (
	"context"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"space-traveling/cmd/importer/feeder"
)

const defaultChromePath = "/usr/bin/chromium-browser"

// Options configure a Renderer. Zero values fall back to CHROME_PATH (or the
// Linux chromium path), a 30s timeout and a 1s settle delay.
type Options struct {
	ChromePath string
	Timeout    time.Duration
	Settle     time.Duration
}

// Renderer loads pages in headless Chrome for feeds whose articles are built
// client-side.
type Renderer struct {
	opts Options
}

func New(opts Options) *Renderer {
	if opts.ChromePath == "" {
		opts.ChromePath = os.Getenv("CHROME_PATH")
	}
	if opts.ChromePath == "" {
		opts.ChromePath = defaultChromePath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Settle <= 0 {
		opts.Settle = time.Second
	}
	return &Renderer{opts: opts}
}

func (r *Renderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(r.opts.ChromePath),
		chromedp.UserAgent(feeder.UserAgent),
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
	)
}

// Render returns the document HTML of pageURL once the body is ready and the
// settle delay has passed. A fresh browser is started per call.
func (r *Renderer) Render(ctx context.Context, pageURL string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, r.allocatorOptions()...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()
	browserCtx, cancel := context.WithTimeout(browserCtx, r.opts.Timeout)
	defer cancel()

	var page string
	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(r.opts.Settle),
		chromedp.OuterHTML("html", &page, chromedp.ByQuery),
	); err != nil {
		return "", err
	}
	return page, nil
}
