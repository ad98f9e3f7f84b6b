package services

import (
	"context"
	"math"
	"strings"

	"space-traveling/cmd/web/dto"
	"space-traveling/logger"
	"space-traveling/richtext"
)

// wordsPerMinute is the assumed reading speed.
const wordsPerMinute = 200

// PostService assembles a single post page.
type PostService struct {
	store     ContentStore
	docType   string
	neighbors *NeighborService
}

func NewPostService(store ContentStore, docType string, neighbors *NeighborService) *PostService {
	return &PostService{store: store, docType: docType, neighbors: neighbors}
}

// Assemble loads the post uid, renders its sections, and resolves its neighbours.
func (s *PostService) Assemble(ctx context.Context, uid string) (dto.PostViewDTO, error) {
	doc, err := s.store.GetByUID(ctx, s.docType, uid)
	if err != nil {
		return dto.PostViewDTO{}, storeErr("get post", err)
	}

	sections := make([]dto.ContentSectionDTO, 0, len(doc.Data.Content))
	for i, block := range doc.Data.Content {
		body, err := richtext.AsHTML(block.Body)
		if err != nil {
			// never fall back to the raw structured text
			logger.ErrorWithFields("render failure", logger.Fields{
				"uid":   doc.UID,
				"block": i,
				"error": err.Error(),
			})
			body = ""
		}
		sections = append(sections, dto.ContentSectionDTO{Heading: block.Heading, BodyHTML: body})
	}

	view := dto.PostViewDTO{
		UID:                  doc.UID,
		Title:                doc.Data.Title,
		BannerURL:            doc.Data.Banner.URL,
		Author:               doc.Data.Author,
		FirstPublicationDate: doc.FirstPublicationDate,
		LastPublicationDate:  doc.LastPublicationDate,
		Sections:             sections,
		ReadingTimeMinutes:   ReadingTime(sections),
	}

	first, last := doc.FirstPublicationDate, doc.LastPublicationDate
	if last != nil && (first == nil || !first.Equal(*last)) {
		edited := *last
		view.EditedAt = &edited
	}

	if first != nil && s.neighbors != nil {
		n, err := s.neighbors.FindNeighbors(ctx, *first)
		if err != nil {
			return dto.PostViewDTO{}, err
		}
		view.PreviousSuggestion = n.Previous
		view.NextSuggestion = n.Next
	}
	return view, nil
}

// ReadingTime estimates minutes to read sections, never less than one.
func ReadingTime(sections []dto.ContentSectionDTO) int {
	words := 0
	for _, s := range sections {
		words += len(strings.Fields(s.Heading))
		words += len(strings.Fields(s.BodyHTML))
	}
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	return max(1, minutes)
}
