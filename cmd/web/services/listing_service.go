package services

import (
	"context"

	"space-traveling/cmd/web/dto"
	"space-traveling/models"
)

// ListingService serves the paged post listing.
type ListingService struct {
	store    ContentStore
	docType  string
	pageSize int
}

func NewListingService(store ContentStore, docType string, pageSize int) *ListingService {
	return &ListingService{store: store, docType: docType, pageSize: pageSize}
}

// FetchInitial returns the first listing page in the store's default order.
func (s *ListingService) FetchInitial(ctx context.Context) (dto.PostPageDTO, error) {
	page, err := s.store.GetByType(ctx, s.docType, models.QueryOptions{
		Fetch: []string{
			"uid",
			s.docType + ".title",
			s.docType + ".subtitle",
			s.docType + ".author",
			"last_publication_date",
		},
		PageSize: s.pageSize,
	})
	if err != nil {
		return dto.PostPageDTO{}, storeErr("fetch initial page", err)
	}
	return mapPage(page), nil
}

// FetchNext follows cursor verbatim. The result replaces the previous page.
func (s *ListingService) FetchNext(ctx context.Context, cursor string) (dto.PostPageDTO, error) {
	page, err := s.store.NextPage(ctx, cursor)
	if err != nil {
		return dto.PostPageDTO{}, storeErr("fetch next page", err)
	}
	return mapPage(page), nil
}

func mapPage(p models.Page) dto.PostPageDTO {
	out := dto.PostPageDTO{
		Results:  make([]dto.PostSummaryDTO, 0, len(p.Results)),
		NextPage: p.NextPage,
	}
	for _, d := range p.Results {
		out.Results = append(out.Results, dto.PostSummaryDTO{
			UID:                  d.UID,
			FirstPublicationDate: d.FirstPublicationDate,
			Title:                d.Data.Title,
			Subtitle:             d.Data.Subtitle,
			Author:               d.Data.Author,
		})
	}
	return out
}
