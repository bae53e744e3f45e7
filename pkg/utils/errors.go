package utils

import "errors"

// Failure classes shared by the catalog client, the page fetcher and the
// display mechanisms. Wrap them with fmt.Errorf("%w: ...") and test with
// errors.Is.
var (
	// ErrNetwork covers timeouts, non-success statuses and malformed payloads.
	ErrNetwork = errors.New("network error")
	// ErrDecode means the fetched bytes are not a valid image.
	ErrDecode = errors.New("decode error")
	// ErrDisplay means a display mechanism is unavailable or failed to launch.
	ErrDisplay = errors.New("display error")
)
