package services

import (
	"context"
	"errors"
	"fmt"

	"space-traveling/models"
)

// ContentStore is the read side of a headless CMS.
// Implemented by cmsclient.Client (Prismic) and repositories.DocumentRepository (MongoDB).
type ContentStore interface {
	GetByType(ctx context.Context, docType string, opts models.QueryOptions) (models.Page, error)
	GetByUID(ctx context.Context, docType, uid string) (models.Document, error)
	Get(ctx context.Context, q models.Query) (models.Page, error)
	NextPage(ctx context.Context, cursor string) (models.Page, error)
	Health(ctx context.Context) error
}

var (
	ErrNotFound         = fmt.Errorf("post not found: %w", models.ErrNotFound)
	ErrInvalidCursor    = fmt.Errorf("bad continuation: %w", models.ErrInvalidCursor)
	ErrStoreUnavailable = errors.New("content store unavailable")
)

// storeErr classifies a store failure. Anything that is not a missing
// document or a bad cursor is reported as ErrStoreUnavailable, keeping the
// cause (context deadlines included) in the chain.
func storeErr(op string, err error) error {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, models.ErrInvalidCursor):
		return fmt.Errorf("%s: %w", op, ErrInvalidCursor)
	default:
		return fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	}
}
