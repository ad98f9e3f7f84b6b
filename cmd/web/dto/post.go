package dto

import "time"

// PostSummaryDTO is one entry of the listing page.
type PostSummaryDTO struct {
	UID                  string     `json:"uid"`
	FirstPublicationDate *time.Time `json:"first_publication_date"`
	Title                string     `json:"title"`
	Subtitle             string     `json:"subtitle"`
	Author               string     `json:"author"`
}

// PostPageDTO is one listing page. NextPage is the opaque continuation cursor,
// null on the last page. It has the same shape for the first and every following page.
type PostPageDTO struct {
	Results  []PostSummaryDTO `json:"results"`
	NextPage *string          `json:"next_page"`
}

// ContentSectionDTO is a heading plus its rendered body.
// BodyHTML is renderer output and is the only HTML the templates trust.
type ContentSectionDTO struct {
	Heading  string `json:"heading"`
	BodyHTML string `json:"body_html"`
}

// PostSuggestionDTO references a neighbouring post.
type PostSuggestionDTO struct {
	UID   string `json:"uid"`
	Title string `json:"title"`
}

// NeighborsDTO holds the chronologically adjacent posts.
type NeighborsDTO struct {
	Previous *PostSuggestionDTO `json:"previous"`
	Next     *PostSuggestionDTO `json:"next"`
}

// PostViewDTO is a fully assembled post page.
// EditedAt is set only when the post changed after its first publication.
type PostViewDTO struct {
	UID                  string              `json:"uid"`
	Title                string              `json:"title"`
	BannerURL            string              `json:"banner_url"`
	Author               string              `json:"author"`
	FirstPublicationDate *time.Time          `json:"first_publication_date"`
	LastPublicationDate  *time.Time          `json:"last_publication_date"`
	EditedAt             *time.Time          `json:"edited_at,omitempty"`
	Sections             []ContentSectionDTO `json:"sections"`
	ReadingTimeMinutes   int                 `json:"reading_time_minutes"`
	PreviousSuggestion   *PostSuggestionDTO  `json:"previous_suggestion"`
	NextSuggestion       *PostSuggestionDTO  `json:"next_suggestion"`
}
