package aiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/antonk9218/imgsuite/internal/entity"
)

// Client talks to an OpenAI-compatible provider for both the vision and the
// image-generation endpoints.
type Client struct {
	baseURL    string
	apiKey     string
	chatModel  string
	imageModel string
	httpc      *http.Client
}

func NewClient(baseURL, apiKey, chatModel, imageModel string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		chatModel:  chatModel,
		imageModel: imageModel,
		httpc:      &http.Client{Timeout: timeout},
	}
}

// APIError is a non-2xx provider answer with whatever diagnostics it carried.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (%d)", e.StatusCode)
}

// resolveKey prefers the per-request key over the configured one.
func (c *Client) resolveKey(override, credential string) (string, error) {
	if override != "" {
		return override, nil
	}
	if c.apiKey != "" {
		return c.apiKey, nil
	}
	return "", fmt.Errorf("%w: %s", entity.ErrMissingAPIKey, credential)
}

func (c *Client) postJSON(ctx context.Context, path, apiKey string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, parseAPIError(resp.StatusCode, data)
	}

	return data, nil
}

func parseAPIError(status int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var body struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &body) == nil {
		if body.Error.Message != "" {
			apiErr.Message = body.Error.Message
			apiErr.Code = body.Error.Code
			return apiErr
		}
		if body.Message != "" {
			apiErr.Message = body.Message
			return apiErr
		}
	}

	apiErr.Message = http.StatusText(status)
	return apiErr
}
