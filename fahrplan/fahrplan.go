package fahrplan

import (
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FetchError is a network or HTTP-level failure on one feed.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// GetSchedule fetches and validates one feed document. The returned error
// is a *FetchError for transport failures and a *ValidationError for
// documents that do not match the expected shape.
func GetSchedule(url string) (*Fahrplan, error) {
	resp, err := http.Get(url) //nolint:gosec
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 || resp.StatusCode < 200 {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("got not OK: %s", resp.Status)}
	}

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, &FetchError{URL: url, Err: readErr}
	}

	return ParseSchedule(body)
}
