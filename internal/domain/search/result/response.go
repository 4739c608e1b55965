package result

import "github.com/melodex/melodex/internal/domain/search/suggest"

// Response is the search result envelope. The item content is what gets
// cached; SearchID and ProcessingTimeMs are stamped fresh per call even
// when the content is served from cache.
type Response struct {
	Items            []Item               `json:"items"`
	TotalCount       int                  `json:"totalCount"`
	HasMore          bool                 `json:"hasMore"`
	Suggestions      []suggest.Suggestion `json:"suggestions"`
	RelatedSearches  []string             `json:"relatedSearches"`
	SearchID         string               `json:"searchId"`
	ProcessingTimeMs int64                `json:"processingTimeMs"`
}

// Empty returns the envelope for a query with no results.
func Empty(searchID string) Response {
	return Response{
		Items:           []Item{},
		Suggestions:     []suggest.Suggestion{},
		RelatedSearches: []string{},
		SearchID:        searchID,
	}
}
