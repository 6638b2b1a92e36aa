package models

// CatalogItem is a normalized anime record produced by the metadata lookup.
// Optional fields are nil when the provider omits them and encode as null.
type CatalogItem struct {
	ID       int      `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	Synopsis *string  `json:"synopsis" yaml:"synopsis"`
	ImageURL *string  `json:"imageUrl" yaml:"imageUrl"`
	Score    *float64 `json:"score" yaml:"score"` // 0-10
	Year     *int     `json:"year" yaml:"year"`
}

// RecommendationItem is a read-only display record returned by a recommendation engine.
type RecommendationItem struct {
	ID       int      `json:"id" yaml:"id"`
	Title    string   `json:"title" yaml:"title"`
	ImageURL *string  `json:"imageUrl" yaml:"imageUrl"`
	Score    *float64 `json:"score" yaml:"score"`
	Year     *int     `json:"year" yaml:"year"`
	Reason   string   `json:"reason" yaml:"reason"`
}

// IDs returns the ids of items in order.
func IDs(items []CatalogItem) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}

// StringPtr returns nil for an empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
