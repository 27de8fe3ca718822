package feed

import "fmt"

// FetchError reports a failed feed request: network failure, non-2xx status
// or an unreadable payload.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
