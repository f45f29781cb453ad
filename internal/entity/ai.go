package entity

import "encoding/json"

// VisionRequest asks the vision provider to describe an image supplied
// as a data URI.
type VisionRequest struct {
	ImageDataURL string `json:"imageDataUrl" binding:"required"`
	APIKey       string `json:"apiKey,omitempty"`
	Prompt       string `json:"prompt,omitempty"`
}

type VisionResult struct {
	Blocks []string        `json:"blocks"`
	Raw    json.RawMessage `json:"raw,omitempty"`
}

type GenerateRequest struct {
	Prompt         string `json:"prompt" binding:"required"`
	NegativePrompt string `json:"negativePrompt,omitempty"`
	APIKey         string `json:"apiKey,omitempty"`
	Size           string `json:"size,omitempty"`
	Sequential     string `json:"sequential,omitempty"`
	Watermark      *bool  `json:"watermark,omitempty"`
	ResponseFormat string `json:"responseFormat,omitempty"`
}

// GeneratedImage is one normalized record from the generation provider.
// URL is either a direct link or a constructed data URI when the provider
// delivered base64 payloads.
type GeneratedImage struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	MimeType      string `json:"mimeType"`
	Size          string `json:"size,omitempty"`
	Prompt        string `json:"prompt"`
	RevisedPrompt string `json:"revisedPrompt,omitempty"`
	Seed          int64  `json:"seed,omitempty"`
	Created       int64  `json:"created,omitempty"`
}

type GenerateResult struct {
	Images         []GeneratedImage `json:"images"`
	ResponseFormat string           `json:"responseFormat"`
	Raw            json.RawMessage  `json:"raw,omitempty"`
}
