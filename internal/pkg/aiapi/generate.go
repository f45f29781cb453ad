package aiapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/antonk9218/imgsuite/internal/entity"
)

const (
	FormatURL     = "url"
	FormatB64JSON = "b64_json"

	defaultSize     = "2K"
	defaultMimeType = "image/png"
)

// Wire shapes follow the OpenAI-compatible image API.
type imageGenRequest struct {
	Model                     string `json:"model"`
	Prompt                    string `json:"prompt"`
	Size                      string `json:"size,omitempty"`
	ResponseFormat            string `json:"response_format,omitempty"`
	Watermark                 *bool  `json:"watermark,omitempty"`
	SequentialImageGeneration string `json:"sequential_image_generation,omitempty"`
}

type imageGenResponse struct {
	Created int64 `json:"created"`
	Data    []struct {
		URL           string `json:"url,omitempty"`
		B64JSON       string `json:"b64_json,omitempty"`
		RevisedPrompt string `json:"revised_prompt,omitempty"`
		Seed          int64  `json:"seed,omitempty"`
		Size          string `json:"size,omitempty"`
	} `json:"data"`
}

// Generate asks the provider for images. When url delivery turns out to be
// unavailable (404 or the provider's "endpoint closed" message) the request
// is retried once as b64_json before giving up.
func (c *Client) Generate(ctx context.Context, req entity.GenerateRequest) (*entity.GenerateResult, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, entity.ErrEmptyPrompt
	}

	apiKey, err := c.resolveKey(req.APIKey, "image generation api key")
	if err != nil {
		return nil, err
	}

	// The provider schema has no negative-prompt field.
	if negative := strings.TrimSpace(req.NegativePrompt); negative != "" {
		prompt = prompt + "\nAvoid: " + negative
	}

	size := req.Size
	if size == "" {
		size = defaultSize
	}
	sequential := req.Sequential
	if sequential == "" {
		sequential = "disabled"
	}
	watermark := true
	if req.Watermark != nil {
		watermark = *req.Watermark
	}
	format := req.ResponseFormat
	if format == "" {
		format = FormatURL
	}

	payload := imageGenRequest{
		Model:                     c.imageModel,
		Prompt:                    prompt,
		Size:                      size,
		ResponseFormat:            format,
		Watermark:                 &watermark,
		SequentialImageGeneration: sequential,
	}

	raw, err := c.postJSON(ctx, "/images/generations", apiKey, payload)
	if err != nil && format == FormatURL && urlModeUnavailable(err) {
		logrus.WithField("reason", err.Error()).Info("url delivery unavailable, retrying as b64_json")
		format = FormatB64JSON
		payload.ResponseFormat = format
		raw, err = c.postJSON(ctx, "/images/generations", apiKey, payload)
	}
	if err != nil {
		return nil, err
	}

	var parsed imageGenResponse
	if jsonErr := json.Unmarshal(raw, &parsed); jsonErr != nil {
		return nil, entity.ErrMalformedResponse
	}

	images := make([]entity.GeneratedImage, 0, len(parsed.Data))
	for _, datum := range parsed.Data {
		img := entity.GeneratedImage{
			ID:            uuid.New().String(),
			URL:           datum.URL,
			MimeType:      defaultMimeType,
			Size:          datum.Size,
			Prompt:        req.Prompt,
			RevisedPrompt: datum.RevisedPrompt,
			Seed:          datum.Seed,
			Created:       parsed.Created,
		}
		if img.URL == "" && datum.B64JSON != "" {
			img.URL = fmt.Sprintf("data:%s;base64,%s", defaultMimeType, datum.B64JSON)
		}
		if img.Size == "" {
			img.Size = size
		}
		images = append(images, img)
	}

	return &entity.GenerateResult{
		Images:         images,
		ResponseFormat: format,
		Raw:            raw,
	}, nil
}

// urlModeUnavailable matches the provider's two ways of saying that url
// delivery is switched off: a bare 404 or the "endpoint ... closed or
// temporarily unavailable" message.
func urlModeUnavailable(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.StatusCode == 404 {
		return true
	}
	message := strings.ToLower(apiErr.Message)
	return strings.Contains(message, "endpoint") &&
		(strings.Contains(message, "closed") || strings.Contains(message, "temporarily unavailable"))
}
