// Package predict talks to the external sign-language inference
// service. The service runs independently of room state, this client is
// plain request/response plumbing.
package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrUnavailable marks transport-level failures (refused connection,
// timeout). The HTTP layer maps it to 503.
var ErrUnavailable = errors.New("prediction service unavailable")

// UpstreamError carries an error status the inference service itself
// returned, forwarded to the caller as-is.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("prediction service returned %d: %s", e.Status, e.Message)
}

const (
	predictTimeout = 10 * time.Second
	healthTimeout  = 2 * time.Second
)

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: predictTimeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// Predict forwards landmark sequences and returns the predicted word.
func (c *Client) Predict(ctx context.Context, landmarks []json.RawMessage) (string, error) {
	body, err := json.Marshal(map[string]any{"landmarks": landmarks})
	if err != nil {
		return "", fmt.Errorf("marshal landmarks: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var upstream struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&upstream)
		if upstream.Error == "" {
			upstream.Error = "prediction failed"
		}
		return "", &UpstreamError{Status: resp.StatusCode, Message: upstream.Error}
	}

	var out struct {
		Prediction string `json:"prediction"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode prediction: %w", err)
	}
	return out.Prediction, nil
}

// Available pings the service with a short timeout. Any reachable
// answer other than 503 counts as available.
func (c *Client) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/predict", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode != http.StatusServiceUnavailable
}
