package content

import "fmt"

// ContentFetchError is returned when the content API answers with a
// non-2xx status.
type ContentFetchError struct {
	Status     int
	StatusText string
	Body       string
}

func (e *ContentFetchError) Error() string {
	return fmt.Sprintf("riot api error: %d %s: %s", e.Status, e.StatusText, e.Body)
}

// RateLimited reports whether the server rejected the request with 429.
func (e *ContentFetchError) RateLimited() bool {
	return e.Status == 429
}

// NetworkError wraps a transport failure reaching the content API.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
