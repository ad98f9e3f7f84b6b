package services

import (
	"context"
	"errors"
	"time"

	"space-traveling/cmd/web/dto"
)

type ResolutionState int

const (
	// StateLoading means the post could not be assembled within the resolve timeout.
	StateLoading ResolutionState = iota
	StateFound
	StateNotFound
)

func (s ResolutionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateFound:
		return "found"
	case StateNotFound:
		return "not_found"
	}
	return "unknown"
}

// Resolution is the outcome of resolving a post slug. Post is set only when State is StateFound.
type Resolution struct {
	State ResolutionState
	Post  dto.PostViewDTO
}

// PostResolver bounds post assembly by a timeout and reports an explicit state.
type PostResolver struct {
	posts   *PostService
	timeout time.Duration
}

// NewPostResolver returns a resolver. A zero timeout waits as long as ctx allows.
func NewPostResolver(posts *PostService, timeout time.Duration) *PostResolver {
	return &PostResolver{posts: posts, timeout: timeout}
}

// Resolve assembles slug. Failures other than a missing post or an elapsed
// resolve timeout are returned as errors.
func (r *PostResolver) Resolve(ctx context.Context, slug string) (Resolution, error) {
	actx := ctx
	if r.timeout > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	view, err := r.posts.Assemble(actx, slug)
	switch {
	case err == nil:
		return Resolution{State: StateFound, Post: view}, nil
	case errors.Is(err, ErrNotFound):
		return Resolution{State: StateNotFound}, nil
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return Resolution{State: StateLoading}, nil
	default:
		return Resolution{}, err
	}
}
