package clients

import (
	"fmt"
	"io"
	"net/http"
)

const maxErrorBody = 512

// StatusError reports a non-2xx answer from an upstream service.
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.Code, e.Body)
}

func checkStatus(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{Service: service, Code: resp.StatusCode, Body: string(body)}
}
