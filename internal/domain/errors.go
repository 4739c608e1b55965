package domain

import "errors"

var (
	// ErrInvalidQuery signals a malformed or oversized search query.
	// This is the only failure surfaced to API callers; everything
	// else degrades in place.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrCacheUnavailable signals a cache tier failure. Never surfaced
	// to callers; the orchestrator falls back to direct computation.
	ErrCacheUnavailable = errors.New("cache unavailable")
	// ErrRetrievalFailed signals a catalog retrieval failure for one
	// result kind. The kind contributes empty results instead.
	ErrRetrievalFailed = errors.New("catalog retrieval failed")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
)
