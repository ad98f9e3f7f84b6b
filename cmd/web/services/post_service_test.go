package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"space-traveling/cmd/web/dto"
	"space-traveling/models"
	"space-traveling/richtext"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("lorem ", n))
}

func block(heading, body string) models.ContentBlock {
	return models.ContentBlock{
		Heading: heading,
		Body:    richtext.RichText{richtext.NewBlock(richtext.Paragraph, body)},
	}
}

func threePosts() *fakeStore {
	return newFakeStore(
		post("p1", "Post one", date(1), block("", words(10))),
		post("p2", "Post two", date(2), block("", words(100)), block("", words(150))),
		post("p3", "Post three", date(3), block("", words(10))),
	)
}

func newPostService(store ContentStore) *PostService {
	return NewPostService(store, "posts", NewNeighborService(store, "posts"))
}

func TestAssembleScenario(t *testing.T) {
	view, err := newPostService(threePosts()).Assemble(context.Background(), "p2")
	require.NoError(t, err)

	assert.Equal(t, "Post two", view.Title)
	assert.Equal(t, 2, view.ReadingTimeMinutes)
	require.NotNil(t, view.PreviousSuggestion)
	require.NotNil(t, view.NextSuggestion)
	assert.Equal(t, dto.PostSuggestionDTO{UID: "p1", Title: "Post one"}, *view.PreviousSuggestion)
	assert.Equal(t, dto.PostSuggestionDTO{UID: "p3", Title: "Post three"}, *view.NextSuggestion)
	assert.Nil(t, view.EditedAt)
}

func TestAssembleKeepsSectionOrder(t *testing.T) {
	d := post("ordered", "Ordered", date(5),
		block("Primeiro", "a"),
		block("Segundo", "b"),
		block("Terceiro", "c"),
	)
	view, err := newPostService(newFakeStore(d)).Assemble(context.Background(), "ordered")
	require.NoError(t, err)

	require.Len(t, view.Sections, 3)
	assert.Equal(t, dto.ContentSectionDTO{Heading: "Primeiro", BodyHTML: "<p>a</p>"}, view.Sections[0])
	assert.Equal(t, "Segundo", view.Sections[1].Heading)
	assert.Equal(t, "Terceiro", view.Sections[2].Heading)
}

func TestAssembleEditedMarker(t *testing.T) {
	first := time.Date(2021, 3, 25, 19, 25, 28, 0, time.UTC)
	sameInstant := first.In(time.FixedZone("BRT", -3*3600))
	later := first.Add(48 * time.Hour)

	testCases := []struct {
		name       string
		first      *time.Time
		last       *time.Time
		wantEdited *time.Time
	}{
		{name: "same instant", first: &first, last: &sameInstant},
		{name: "edited later", first: &first, last: &later, wantEdited: &later},
		{name: "never published", first: nil, last: nil},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			d := post("hooks", "Hooks", nil)
			d.FirstPublicationDate = testCase.first
			d.LastPublicationDate = testCase.last

			view, err := newPostService(newFakeStore(d)).Assemble(context.Background(), "hooks")
			require.NoError(t, err)
			if testCase.wantEdited == nil {
				assert.Nil(t, view.EditedAt)
				return
			}
			require.NotNil(t, view.EditedAt)
			assert.True(t, view.EditedAt.Equal(*testCase.wantEdited))
		})
	}
}

func TestAssembleRenderFailureLeavesEmptyBody(t *testing.T) {
	broken := models.ContentBlock{
		Heading: "Quebrado",
		Body:    richtext.RichText{richtext.NewBlock("table", "raw structured text")},
	}
	d := post("broken", "Broken", date(4), block("Ok", "fine"), broken)

	view, err := newPostService(newFakeStore(d)).Assemble(context.Background(), "broken")
	require.NoError(t, err)
	require.Len(t, view.Sections, 2)
	assert.Equal(t, "<p>fine</p>", view.Sections[0].BodyHTML)
	assert.Equal(t, "Quebrado", view.Sections[1].Heading)
	assert.Empty(t, view.Sections[1].BodyHTML)
}

func TestAssembleNotFound(t *testing.T) {
	_, err := newPostService(threePosts()).Assemble(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssembleWithoutPublicationSkipsNeighbors(t *testing.T) {
	store := threePosts()
	store.docs = append(store.docs, post("draft", "Draft", nil))

	view, err := newPostService(store).Assemble(context.Background(), "draft")
	require.NoError(t, err)
	assert.Nil(t, view.PreviousSuggestion)
	assert.Nil(t, view.NextSuggestion)
	assert.Empty(t, store.queries)
}

func TestReadingTime(t *testing.T) {
	testCases := []struct {
		name     string
		sections []dto.ContentSectionDTO
		want     int
	}{
		{name: "empty post", sections: nil, want: 1},
		{name: "exactly 200", sections: []dto.ContentSectionDTO{{BodyHTML: words(200)}}, want: 1},
		{name: "201 words", sections: []dto.ContentSectionDTO{{BodyHTML: words(201)}}, want: 2},
		{name: "headings count", sections: []dto.ContentSectionDTO{
			{Heading: words(50), BodyHTML: words(200)},
		}, want: 2},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.want, ReadingTime(testCase.sections))
		})
	}
}
