package session

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taichizzz/anime-recommender/internal/models"
)

func strPtr(s string) *string     { return &s }
func intPtr(i int) *int           { return &i }
func floatPtr(f float64) *float64 { return &f }

func TestTruncateSynopsis(t *testing.T) {
	long := strings.Repeat("a", 230)
	exact := strings.Repeat("b", SynopsisLimit)
	multibyte := strings.Repeat("é", 221)

	tests := []struct {
		name     string
		synopsis *string
		expected string
	}{
		{"nil", nil, "No synopsis."},
		{"empty", strPtr(""), ""},
		{"short", strPtr("A ninja story."), "A ninja story."},
		{"exactly at limit", &exact, exact},
		{"over limit", &long, strings.Repeat("a", SynopsisLimit) + "..."},
		{"counts runes not bytes", &multibyte, strings.Repeat("é", SynopsisLimit) + "..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateSynopsis(tt.synopsis))
		})
	}
}

func TestFormatYearAndScore(t *testing.T) {
	assert.Equal(t, "?", FormatYear(nil))
	assert.Equal(t, "2002", FormatYear(intPtr(2002)))
	assert.Equal(t, "?", FormatScore(nil))
	assert.Equal(t, "8", FormatScore(floatPtr(8.0)))
	assert.Equal(t, "9.07", FormatScore(floatPtr(9.07)))
}

func TestRender(t *testing.T) {
	state := State{
		Query: "naruto",
		Results: []models.CatalogItem{
			{ID: 1, Title: "Naruto", Synopsis: strPtr("Ninja."), Score: floatPtr(8), Year: intPtr(2002), ImageURL: strPtr("https://img.test/1.jpg")},
			{ID: 2, Title: "Boruto"},
		},
		Selected: []models.CatalogItem{{ID: 1, Title: "Naruto"}},
		Recommendations: []models.RecommendationItem{
			{ID: 5, Title: "Demo", Reason: "because"},
		},
		Error: "oops",
	}

	v := Render(state)
	assert.Equal(t, "Selected (1/3)", v.Header)
	assert.Equal(t, "naruto", v.Query)
	assert.Equal(t, "oops", v.Error)
	assert.True(t, v.CanRecommend)
	assert.False(t, v.SelectionFull)
	assert.True(t, v.HasRecommendations())

	require.Len(t, v.Results, 2)
	assert.True(t, v.Results[0].Selected)
	assert.False(t, v.Results[0].CanSelect)
	assert.Equal(t, "2002", v.Results[0].Year)
	assert.Equal(t, "https://img.test/1.jpg", v.Results[0].ImageURL)
	assert.False(t, v.Results[1].Selected)
	assert.True(t, v.Results[1].CanSelect)
	assert.Equal(t, "?", v.Results[1].Score)
	assert.Equal(t, "No synopsis.", v.Results[1].Synopsis)

	require.Len(t, v.Recommendations, 1)
	assert.Equal(t, "because", v.Recommendations[0].Reason)
	assert.Equal(t, "?", v.Recommendations[0].Year)
}

func TestRender_FullSelectionDisablesSelect(t *testing.T) {
	state := State{
		Results:  []models.CatalogItem{{ID: 1}, {ID: 4}},
		Selected: []models.CatalogItem{{ID: 1}, {ID: 2}, {ID: 3}},
	}

	v := Render(state)
	assert.True(t, v.SelectionFull)
	assert.Equal(t, "Selected (3/3)", v.Header)
	assert.False(t, v.Results[1].CanSelect)
	assert.True(t, v.Results[0].Selected)
}

func TestRender_EmptySelectionCannotRecommend(t *testing.T) {
	v := Render(State{})
	assert.False(t, v.CanRecommend)
	assert.Equal(t, "Selected (0/3)", v.Header)
	assert.False(t, v.HasRecommendations())
}
