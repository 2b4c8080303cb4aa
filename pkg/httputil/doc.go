// Package httputil fetches remote input documents.
//
// [Fetcher] downloads a GeoJSON document over HTTP(S) so the CLI can build
// straight from a URL. Transient failures (network errors, 5xx and 429
// responses) are retried with exponential backoff through [Retry]; other
// failures are returned at once. Bodies larger than [Fetcher.MaxBytes] are
// rejected.
//
//	f := httputil.NewFetcher(nil)
//	data, err := f.Fetch(ctx, "https://example.com/roads.geojson")
package httputil
