package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// apiError is a failure the API reported itself (a non-2xx response).
// Mapped to exit code 1.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string { return e.Message }

// transportError means the API could not be reached at all (server down,
// wrong URL, network trouble). Mapped to exit code 2.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return "could not reach API: " + e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// apiClient is a thin JSON-over-HTTP caller for the inventory API. One
// request method for all commands keeps error handling consistent.
type apiClient struct {
	baseURL    string
	httpClient *http.Client
}

func newAPIClient(baseURL string) *apiClient {
	return &apiClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// request issues a call and returns the decoded JSON payload. Non-2xx
// responses become an *apiError carrying the server's {"error":...} message
// when one was provided; connectivity failures become a *transportError.
func (c *apiClient) request(method, path string, body interface{}) (interface{}, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewBuffer(buf)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &transportError{err: err}
	}
	defer resp.Body.Close()

	// Decode best-effort: the server may send nothing, or non-JSON on a
	// proxy error, and that should not hide the status code.
	var payload interface{}
	_ = json.NewDecoder(resp.Body).Decode(&payload)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return payload, nil
	}

	msg := fmt.Sprintf("HTTP %d", resp.StatusCode)
	if m, ok := payload.(map[string]interface{}); ok {
		if errMsg, ok := m["error"].(string); ok && errMsg != "" {
			msg = errMsg
		}
	}
	return nil, &apiError{Status: resp.StatusCode, Message: msg}
}

// printJSON pretty-prints a payload so CLI output stays readable.
func printJSON(data interface{}) error {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
