package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"space-traveling/cmd/web/dto"
	"space-traveling/models"
)

// NeighborService finds the posts published right before and after a date.
type NeighborService struct {
	store   ContentStore
	docType string
}

func NewNeighborService(store ContentStore, docType string) *NeighborService {
	return &NeighborService{store: store, docType: docType}
}

// FindNeighbors runs the previous and next lookups concurrently.
// Either side is nil when no such post exists.
func (s *NeighborService) FindNeighbors(ctx context.Context, ref time.Time) (dto.NeighborsDTO, error) {
	var out dto.NeighborsDTO
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sug, err := s.lookup(gctx,
			models.DateBefore(models.PathFirstPublicationDate, ref),
			[]models.Ordering{{Path: models.PathFirstPublicationDate, Desc: true}})
		out.Previous = sug
		return err
	})
	g.Go(func() error {
		// store default order is first publication ascending
		sug, err := s.lookup(gctx, models.DateAfter(models.PathFirstPublicationDate, ref), nil)
		out.Next = sug
		return err
	})

	if err := g.Wait(); err != nil {
		return dto.NeighborsDTO{}, storeErr("find neighbors", err)
	}
	return out, nil
}

func (s *NeighborService) lookup(ctx context.Context, date models.Predicate, orderings []models.Ordering) (*dto.PostSuggestionDTO, error) {
	page, err := s.store.Get(ctx, models.Query{
		Predicates: []models.Predicate{models.At(models.PathType, s.docType), date},
		QueryOptions: models.QueryOptions{
			Fetch:     []string{s.docType + ".title"},
			PageSize:  1,
			Orderings: orderings,
		},
	})
	if err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, nil
	}
	d := page.Results[0]
	return &dto.PostSuggestionDTO{UID: d.UID, Title: d.Data.Title}, nil
}
