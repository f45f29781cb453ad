package removal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/antonk9218/imgsuite/internal/entity"
)

// Result is a successful background-removal response: the cut-out image
// plus whatever credit accounting the provider reported.
type Result struct {
	Image    []byte
	MimeType string
	Credits  entity.CreditInfo
}

// ProviderError is a non-2xx answer from the provider. Credits may still be
// populated; the provider charges for some failed calls.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	Credits    entity.CreditInfo
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("background removal failed (%s): %s", e.Code, e.Message)
	}
	return fmt.Sprintf("background removal failed: %s", e.Message)
}

type errorBody struct {
	Errors []struct {
		Title string `json:"title"`
		Code  string `json:"code"`
	} `json:"errors"`
}

type Client struct {
	endpoint string
	httpc    *http.Client
}

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint: endpoint,
		httpc:    &http.Client{Timeout: timeout},
	}
}

// Remove sends one image to the provider and returns the cut-out bytes.
func (c *Client) Remove(ctx context.Context, image []byte, filename, apiKey string) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("image_file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-Api-Key", apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnreachable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrProviderUnreachable, err)
	}

	credits := entity.CreditInfo{
		Remaining: resp.Header.Get("X-Credits-Remaining"),
		Charged:   resp.Header.Get("X-Credits-Charged"),
		Type:      resp.Header.Get("X-Credit-Type"),
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		mimeType := resp.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "image/png"
		}
		return &Result{Image: data, MimeType: mimeType, Credits: credits}, nil
	}

	provErr := &ProviderError{StatusCode: resp.StatusCode, Credits: credits}

	// structured error body > plain body text > status text
	var parsed errorBody
	if json.Unmarshal(data, &parsed) == nil && len(parsed.Errors) > 0 {
		provErr.Message = parsed.Errors[0].Title
		provErr.Code = parsed.Errors[0].Code
	} else if text := strings.TrimSpace(string(data)); text != "" {
		provErr.Message = text
	} else {
		provErr.Message = http.StatusText(resp.StatusCode)
	}

	logrus.WithFields(logrus.Fields{
		"status": resp.StatusCode,
		"code":   provErr.Code,
	}).Warn("background removal rejected")

	return nil, provErr
}
