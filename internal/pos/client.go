package pos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/appetiteclub/kds/internal/kds"
)

const requestTimeout = 10 * time.Second

// HTTPClient implements kds.POSClient against the point-of-sale bridge.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewHTTPClient(baseURL string) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://localhost:8090" // Default POS bridge URL
	}
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Snapshot fetches the full current state of all open tickets.
func (c *HTTPClient) Snapshot(ctx context.Context) ([]kds.Ticket, error) {
	var payload struct {
		Tickets []kds.Ticket `json:"tickets"`
	}
	if err := c.get(ctx, "/kds/tickets", &payload); err != nil {
		return nil, err
	}
	return payload.Tickets, nil
}

// Settings fetches the session configuration.
func (c *HTTPClient) Settings(ctx context.Context) (kds.Settings, error) {
	var settings kds.Settings
	if err := c.get(ctx, "/kds/settings", &settings); err != nil {
		return kds.Settings{}, err
	}
	return settings, nil
}

// CallAway requests the pending -> away transition for one course.
func (c *HTTPClient) CallAway(ctx context.Context, id kds.TicketID, course string) error {
	return c.command(ctx, fmt.Sprintf("/kds/tickets/%s/away", id), courseBody{Course: course})
}

// MarkSent requests the away -> sent transition for one course.
func (c *HTTPClient) MarkSent(ctx context.Context, id kds.TicketID, course string) error {
	return c.command(ctx, fmt.Sprintf("/kds/tickets/%s/sent", id), courseBody{Course: course})
}

// Bump requests removal of a fully served ticket from the working set.
func (c *HTTPClient) Bump(ctx context.Context, id kds.TicketID) error {
	return c.command(ctx, fmt.Sprintf("/kds/tickets/%s/bump", id), nil)
}

type courseBody struct {
	Course string `json:"course"`
}

func (c *HTTPClient) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pos request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pos returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode pos response: %w", err)
	}
	return nil
}

// command posts a transition request. A 4xx with a reason body becomes a
// kds.CommandError so the handler can show it next to the ticket; anything
// else is a transport failure.
func (c *HTTPClient) command(ctx context.Context, path string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode command failed: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("pos request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		var rejection struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&rejection); decodeErr == nil && rejection.Error != "" {
			return &kds.CommandError{Reason: rejection.Error}
		}
		return &kds.CommandError{Reason: fmt.Sprintf("pos rejected the request (status %d)", resp.StatusCode)}
	}

	return fmt.Errorf("pos returned status %d", resp.StatusCode)
}
