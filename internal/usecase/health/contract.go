package health

import "context"

// DBPinger checks catalog store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CacheChecker checks the distributed cache tier.
type CacheChecker interface {
	Ping(ctx context.Context) error
}
