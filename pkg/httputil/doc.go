// Package httputil fetches remote documents with retries.
//
// [Fetcher] performs GET requests and retries transient failures (network
// errors, 429 and 5xx responses) with exponential backoff via [Retry].
// Other statuses fail immediately; 404 is reported as [ErrNotFound].
//
//	body, err := httputil.DefaultFetcher.Get(ctx, "https://example.com/products.json")
package httputil
