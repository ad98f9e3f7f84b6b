package listing

import "sync"

// Display holds the page currently on screen.
//
// Every "load more" request takes a generation from Begin. Only the newest
// generation may commit, so when requests overlap the last one issued wins
// no matter which response arrives first. Failures never touch the page.
type Display[T any] struct {
	mu      sync.Mutex
	current T
	gen     uint64
}

func NewDisplay[T any](initial T) *Display[T] {
	return &Display[T]{current: initial}
}

// Begin starts a request and returns its generation.
func (d *Display[T]) Begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.gen++
	return d.gen
}

// Commit replaces the page if gen is still the newest request.
func (d *Display[T]) Commit(gen uint64, page T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if gen != d.gen {
		return false
	}
	d.current = page
	return true
}

// Fail reports whether a failure of gen should be surfaced to the user.
// Failures of superseded requests are ignored.
func (d *Display[T]) Fail(gen uint64) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return gen == d.gen
}

func (d *Display[T]) Current() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}
