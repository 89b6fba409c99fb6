package httpclient

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBody = 4 << 10

// StatusError describes a non-2xx response. Body holds at most the first 4 KiB.
type StatusError struct {
	Service string
	Status  int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s returned status %d", e.Service, e.Status)
	}
	return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Status, e.Body)
}

// CheckResponse returns nil for 2xx responses. Otherwise it consumes and closes
// the body and returns a *StatusError.
func CheckResponse(resp *http.Response, service string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return readStatusError(resp, service)
}

func readStatusError(resp *http.Response, service string) *StatusError {
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	_, _ = io.Copy(io.Discard, resp.Body)

	return &StatusError{
		Service: service,
		Status:  resp.StatusCode,
		Body:    strings.TrimSpace(string(body)),
	}
}
