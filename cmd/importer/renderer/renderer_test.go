package renderer

import (
	"testing"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("CHROME_PATH", "")
	r := New(Options{})
	assert.Equal(t, defaultChromePath, r.opts.ChromePath)
	assert.Equal(t, 30*time.Second, r.opts.Timeout)
	assert.Equal(t, time.Second, r.opts.Settle)

	t.Setenv("CHROME_PATH", "/opt/chrome")
	assert.Equal(t, "/opt/chrome", New(Options{}).opts.ChromePath)
	assert.Equal(t, "/usr/bin/chrome", New(Options{ChromePath: "/usr/bin/chrome"}).opts.ChromePath)
}

func TestAllocatorOptionsExtendDefaults(t *testing.T) {
	r := New(Options{ChromePath: "/usr/bin/chrome"})
	assert.Greater(t, len(r.allocatorOptions()), len(chromedp.DefaultExecAllocatorOptions))
}
