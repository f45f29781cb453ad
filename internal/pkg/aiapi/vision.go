package aiapi

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/antonk9218/imgsuite/internal/entity"
)

const defaultVisionPrompt = "Describe this image."

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string       `json:"type"`
	Text     string       `json:"text,omitempty"`
	ImageURL *imageURLRef `json:"image_url,omitempty"`
}

type imageURLRef struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	OutputText string `json:"output_text"`
}

// Recognize sends the image to the vision model and extracts the text blocks
// from the provider's answer. An answer with no usable text is an empty
// result, not an error.
func (c *Client) Recognize(ctx context.Context, req entity.VisionRequest) (*entity.VisionResult, error) {
	if !strings.HasPrefix(req.ImageDataURL, "data:image/") {
		return nil, entity.ErrInvalidImageData
	}

	apiKey, err := c.resolveKey(req.APIKey, "vision api key")
	if err != nil {
		return nil, err
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = defaultVisionPrompt
	}

	payload := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &imageURLRef{URL: req.ImageDataURL}},
			},
		}},
	}

	raw, err := c.postJSON(ctx, "/chat/completions", apiKey, payload)
	if err != nil {
		return nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, entity.ErrMalformedResponse
	}

	blocks := make([]string, 0, len(parsed.Choices))
	for _, choice := range parsed.Choices {
		blocks = append(blocks, extractBlocks(choice.Message.Content)...)
	}

	if len(blocks) == 0 {
		if text := strings.TrimSpace(parsed.OutputText); text != "" {
			blocks = append(blocks, text)
		}
	}

	return &entity.VisionResult{Blocks: blocks, Raw: raw}, nil
}

// extractBlocks handles both content shapes the provider may return: a plain
// string, or a list of strings and typed {type:"text", text} objects.
func extractBlocks(content json.RawMessage) []string {
	if len(content) == 0 {
		return nil
	}

	var asString string
	if err := json.Unmarshal(content, &asString); err == nil {
		if text := strings.TrimSpace(asString); text != "" {
			return []string{text}
		}
		return nil
	}

	var asList []json.RawMessage
	if err := json.Unmarshal(content, &asList); err != nil {
		return nil
	}

	var blocks []string
	for _, element := range asList {
		var str string
		if err := json.Unmarshal(element, &str); err == nil {
			if text := strings.TrimSpace(str); text != "" {
				blocks = append(blocks, text)
			}
			continue
		}

		var typed struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(element, &typed); err == nil && typed.Type == "text" {
			if text := strings.TrimSpace(typed.Text); text != "" {
				blocks = append(blocks, text)
			}
		}
	}
	return blocks
}
