package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// errServerError is returned when the daemon responds with a non-2xx status.
var errServerError = errors.New("snet daemon returned an error")

// serverErrorBody mirrors the control package's errorView JSON shape.
type serverErrorBody struct {
	Error string `json:"error"`
}

// getJSON issues a GET request against the daemon and decodes the JSON
// response body into v, or returns errServerError wrapping the daemon's
// reported message on a non-2xx status.
func getJSON(path string, v any) error {
	resp, err := httpClient.Get(baseURL() + path)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", errServerError, readErrorBody(resp.Body))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	return nil
}

// postJSON issues a POST request with body marshaled from req and returns
// errServerError unless the response status equals wantStatus. The response
// body, if any, is discarded.
func postJSON(path string, req any, wantStatus int) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := httpClient.Post(baseURL()+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("%w: %s", errServerError, readErrorBody(resp.Body))
	}

	return nil
}

func readErrorBody(r io.Reader) string {
	var body serverErrorBody
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Error == "" {
		return "unknown error"
	}
	return body.Error
}
