package chi

import (
	"github.com/melodex/melodex/internal/domain/catalog"
	"github.com/melodex/melodex/internal/domain/search/query"
	"github.com/melodex/melodex/internal/domain/search/suggest"
)

// errorCode is a machine-readable error discriminator.
type errorCode string

const (
	codeBadRequest       errorCode = "bad_request"
	codeValidationFailed errorCode = "validation_failed"
	codeNotFound         errorCode = "not_found"
	codeRateLimited      errorCode = "rate_limited"
	codeInternalError    errorCode = "internal_error"
)

// errorResponse is the error envelope.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// rangeDTO is a closed numeric interval; zero max means unbounded.
type rangeDTO struct {
	Min float64 `json:"min,omitempty"`
	Max float64 `json:"max,omitempty"`
}

// filtersDTO carries the structural search filters.
type filtersDTO struct {
	Genres       []string  `json:"genres,omitempty"`
	YearRange    *rangeDTO `json:"yearRange,omitempty"`
	Duration     *rangeDTO `json:"duration,omitempty"`
	Popularity   *rangeDTO `json:"popularity,omitempty"`
	Energy       *rangeDTO `json:"energy,omitempty"`
	Danceability *rangeDTO `json:"danceability,omitempty"`
	ExplicitOnly *bool     `json:"explicitOnly,omitempty"`
	VerifiedOnly bool      `json:"verifiedOnly,omitempty"`
}

// searchRequest is the POST /api/v1/search body.
type searchRequest struct {
	Query   string      `json:"query"`
	Types   []string    `json:"types,omitempty"`
	Filters *filtersDTO `json:"filters,omitempty"`
	UserID  string      `json:"userId,omitempty"`
	Context string      `json:"context,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Offset  int         `json:"offset,omitempty"`
}

// autocompleteResponse is the GET /api/v1/autocomplete envelope.
type autocompleteResponse struct {
	Suggestions []suggest.Suggestion `json:"suggestions"`
}

// healthResponse is the GET /health envelope.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (r *searchRequest) toQuery() (query.Query, error) {
	kinds := make([]catalog.Kind, 0, len(r.Types))
	for _, t := range r.Types {
		kinds = append(kinds, catalog.Kind(t))
	}
	return query.New(
		r.Query, kinds, filtersFromDTO(r.Filters), r.UserID,
		query.Context(r.Context), r.Limit, r.Offset,
	)
}

func filtersFromDTO(f *filtersDTO) query.Filters {
	if f == nil {
		return query.Filters{}
	}
	return query.Filters{
		Genres:       f.Genres,
		YearRange:    rangeFromDTO(f.YearRange),
		Duration:     rangeFromDTO(f.Duration),
		Popularity:   rangeFromDTO(f.Popularity),
		Energy:       rangeFromDTO(f.Energy),
		Danceability: rangeFromDTO(f.Danceability),
		ExplicitOnly: f.ExplicitOnly,
		VerifiedOnly: f.VerifiedOnly,
	}
}

func rangeFromDTO(r *rangeDTO) query.Range {
	if r == nil {
		return query.Range{}
	}
	return query.Range{Min: r.Min, Max: r.Max}
}
