package session

import (
	"fmt"
	"strconv"
)

// SynopsisLimit is the number of runes of synopsis shown per result.
const SynopsisLimit = 220

// View is the display model shared by the web page and the terminal UI.
type View struct {
	Query           string
	Header          string
	Selected        []SelectedRow
	Results         []ResultRow
	Recommendations []RecommendationRow
	Searching       bool
	Recommending    bool
	Error           string
	CanRecommend    bool
	SelectionFull   bool
}

type SelectedRow struct {
	ID    int
	Title string
}

type ResultRow struct {
	ID        int
	Title     string
	Synopsis  string
	Year      string
	Score     string
	ImageURL  string
	Selected  bool
	CanSelect bool
}

type RecommendationRow struct {
	ID       int
	Title    string
	Year     string
	Score    string
	ImageURL string
	Reason   string
}

// Render builds the display model for a state snapshot.
func Render(s State) View {
	full := len(s.Selected) >= MaxSelection
	selected := make(map[int]bool, len(s.Selected))

	v := View{
		Query:         s.Query,
		Header:        fmt.Sprintf("Selected (%d/%d)", len(s.Selected), MaxSelection),
		Searching:     s.Searching,
		Recommending:  s.Recommending,
		Error:         s.Error,
		CanRecommend:  len(s.Selected) > 0 && !s.Recommending,
		SelectionFull: full,
	}

	for _, item := range s.Selected {
		selected[item.ID] = true
		v.Selected = append(v.Selected, SelectedRow{ID: item.ID, Title: item.Title})
	}

	for _, item := range s.Results {
		v.Results = append(v.Results, ResultRow{
			ID:        item.ID,
			Title:     item.Title,
			Synopsis:  TruncateSynopsis(item.Synopsis),
			Year:      FormatYear(item.Year),
			Score:     FormatScore(item.Score),
			ImageURL:  deref(item.ImageURL),
			Selected:  selected[item.ID],
			CanSelect: !selected[item.ID] && !full,
		})
	}

	for _, rec := range s.Recommendations {
		v.Recommendations = append(v.Recommendations, RecommendationRow{
			ID:       rec.ID,
			Title:    rec.Title,
			Year:     FormatYear(rec.Year),
			Score:    FormatScore(rec.Score),
			ImageURL: deref(rec.ImageURL),
			Reason:   rec.Reason,
		})
	}

	return v
}

// TruncateSynopsis shortens a synopsis to SynopsisLimit runes. Only a
// missing synopsis gets the placeholder; an empty one stays empty.
func TruncateSynopsis(synopsis *string) string {
	if synopsis == nil {
		return "No synopsis."
	}
	runes := []rune(*synopsis)
	if len(runes) <= SynopsisLimit {
		return *synopsis
	}
	return string(runes[:SynopsisLimit]) + "..."
}

// FormatYear renders a year, or "?" when unknown.
func FormatYear(year *int) string {
	if year == nil {
		return "?"
	}
	return strconv.Itoa(*year)
}

// FormatScore renders a score, or "?" when unknown.
func FormatScore(score *float64) string {
	if score == nil {
		return "?"
	}
	return strconv.FormatFloat(*score, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// HasRecommendations is used by the page template.
func (v View) HasRecommendations() bool {
	return len(v.Recommendations) > 0
}
