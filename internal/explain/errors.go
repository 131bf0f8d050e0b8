package explain

import "fmt"

// FetchError is returned by Fetch for any failure: transport, provider,
// parsing, or a response with an empty field.
type FetchError struct {
	Concept string
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("explain %q: %v", e.Concept, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
