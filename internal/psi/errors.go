package psi

import "fmt"

// FetchError describes a failed metrics fetch for one URL. Retriable reports
// the classification decided once per failure: client-side rejections (4xx)
// are final, while transport failures, malformed bodies, and 5xx responses
// may be retried.
type FetchError struct {
	URL        string
	StatusCode int // zero when the failure happened below the HTTP layer
	Attempts   int
	Retriable  bool
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d after %d attempt(s): %v", e.URL, e.StatusCode, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch %s: %d attempt(s): %v", e.URL, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
