package rtm

import "fmt"

// TransportError reports a non-200 HTTP status. The body is kept for
// diagnostics; the client never retries.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("bad response: status code %d, text: %s", e.Status, e.Body)
}

// DecodeError reports a response body that is not valid JSON.
type DecodeError struct {
	Body string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid JSON response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// APIError reports a response envelope whose stat field is not "ok".
type APIError struct {
	Stat string
	Code string
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API status %q: code %s, %s", e.Stat, e.Code, e.Msg)
}
