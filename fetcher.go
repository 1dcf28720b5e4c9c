package linksum

import "context"

// Fetcher retrieves raw HTML from URLs.
type Fetcher interface {
	// Fetch issues a GET request and returns the response body.
	// Returns EFETCH for transport failures and non-2xx responses.
	Fetch(ctx context.Context, url string) (html string, err error)
}
