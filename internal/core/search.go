package core

import "context"

// WebSearcher returns the body text of the single top-ranked result for a
// query. Ranking is entirely the provider's; implementations must degrade any
// provider fault to the no-result sentinel rather than failing the session.
type WebSearcher interface {
	Snippet(ctx context.Context, query string) (string, error)
}
