package listing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayLatestGenerationWins(t *testing.T) {
	d := NewDisplay("page-1")

	slow := d.Begin()
	fast := d.Begin()

	assert.True(t, d.Commit(fast, "page-from-fast"))
	assert.False(t, d.Commit(slow, "page-from-slow"), "stale response must not overwrite")
	assert.Equal(t, "page-from-fast", d.Current())
}

func TestDisplayFailureKeepsPage(t *testing.T) {
	d := NewDisplay("page-1")

	stale := d.Begin()
	latest := d.Begin()

	assert.False(t, d.Fail(stale))
	assert.True(t, d.Fail(latest))
	assert.Equal(t, "page-1", d.Current())
}

func TestDisplayConcurrentCommits(t *testing.T) {
	d := NewDisplay(0)
	var wg sync.WaitGroup
	gens := make([]uint64, 50)
	for i := range gens {
		gens[i] = d.Begin()
	}
	for i, g := range gens {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Commit(g, i)
		}()
	}
	wg.Wait()

	assert.Equal(t, len(gens)-1, d.Current())
}
