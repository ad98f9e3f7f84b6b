package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"space-traveling/cmd/internal/httpclient"
	"space-traveling/cmd/internal/notify"
	"space-traveling/config"
	"space-traveling/logger"
)

// browse is a terminal reader for the blog listing.
func main() {
	config.InitApp()
	cfg := config.GetConfig()

	addr := pflag.StringP("url", "u", "http://localhost"+cfg.Server.Addr, "base URL of the web front-end")
	logLevel := pflag.String("log-level", "error", "log level")
	pflag.Parse()
	logger.Init(*logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	toasts := notify.NewChannelNotifier(8)
	go func() {
		for n := range toasts.C() {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
		}
	}()

	b := newBrowser(
		newAPIClient(*addr, httpclient.New(httpclient.Config{Timeout: cfg.CMS.Timeout})),
		toasts,
		os.Stdout,
		cfg.Location(),
	)
	if err := b.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load posts: %v\n", err)
		os.Exit(1)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			b.Wait()
			return
		case line, ok := <-lines:
			if !ok || strings.TrimSpace(line) == "q" {
				stop()
				b.Wait()
				return
			}
			if !b.LoadMore(ctx) {
				fmt.Println("Não há mais posts.")
			}
		}
	}
}
