package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/iachat/chat-widget/internal/model/chat"
)

// DefaultPath is appended to the page origin when no API URL is configured.
const DefaultPath = "/api/chat"

// StatusError reports a non-2xx answer from the chat endpoint.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat endpoint returned HTTP %d", e.StatusCode)
}

// Endpoint resolves the chat URL: an explicit apiURL wins, otherwise the
// default path on the page origin.
func Endpoint(apiURL, origin string) string {
	if u := strings.TrimSpace(apiURL); u != "" {
		return u
	}
	return strings.TrimRight(origin, "/") + DefaultPath
}

// HTTPTransport POSTs chat requests as JSON.
type HTTPTransport struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTransport targets endpoint. A nil client means a client without timeout.
func NewHTTPTransport(endpoint string, client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPTransport{endpoint: endpoint, client: client}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, req chat.Request) (chat.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return chat.Response{}, fmt.Errorf("encode chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return chat.Response{}, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return chat.Response{}, fmt.Errorf("post chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return chat.Response{}, &StatusError{StatusCode: resp.StatusCode}
	}

	var out chat.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return chat.Response{}, fmt.Errorf("decode chat response: %w", err)
	}
	return out, nil
}
