package assess

import "context"

// Fetcher performs a single GET probe. Implementations never return transport
// failures as Go errors; every failure mode is folded into the outcome.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) FetchOutcome
}
