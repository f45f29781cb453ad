package aiapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonk9218/imgsuite/internal/entity"
)

func TestGenerateDefaults(t *testing.T) {
	var seen imageGenRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/images/generations", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&seen))
		w.Write([]byte(`{"created":1700000000,"data":[{"url":"https://cdn.example/img.png","revised_prompt":"a better cat","seed":7,"size":"2K"}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "chat-model", "image-model", 5*time.Second)
	result, err := client.Generate(context.Background(), entity.GenerateRequest{Prompt: "a cat"})
	require.NoError(t, err)

	assert.Equal(t, "image-model", seen.Model)
	assert.Equal(t, "2K", seen.Size)
	assert.Equal(t, "url", seen.ResponseFormat)
	assert.Equal(t, "disabled", seen.SequentialImageGeneration)
	require.NotNil(t, seen.Watermark)
	assert.True(t, *seen.Watermark)

	assert.Equal(t, FormatURL, result.ResponseFormat)
	require.Len(t, result.Images, 1)
	img := result.Images[0]
	assert.NotEmpty(t, img.ID)
	assert.Equal(t, "https://cdn.example/img.png", img.URL)
	assert.Equal(t, "a cat", img.Prompt)
	assert.Equal(t, "a better cat", img.RevisedPrompt)
	assert.Equal(t, int64(7), img.Seed)
	assert.Equal(t, int64(1700000000), img.Created)
}

func TestGenerateRetriesAsB64OnClosedURLMode(t *testing.T) {
	tests := []struct {
		name     string
		failWith func(w http.ResponseWriter)
	}{
		{
			name: "http 404",
			failWith: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "endpoint closed message",
			failWith: func(w http.ResponseWriter) {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(`{"error":{"message":"The url endpoint is closed or temporarily unavailable"}}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var formats []string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req imageGenRequest
				require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				formats = append(formats, req.ResponseFormat)

				if req.ResponseFormat == FormatURL {
					tt.failWith(w)
					return
				}
				w.Write([]byte(`{"created":1,"data":[{"b64_json":"cGF5bG9hZA=="}]}`))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "key", "c", "i", 5*time.Second)
			result, err := client.Generate(context.Background(), entity.GenerateRequest{Prompt: "a dog"})
			require.NoError(t, err)

			assert.Equal(t, []string{"url", "b64_json"}, formats, "exactly one retry")
			assert.Equal(t, FormatB64JSON, result.ResponseFormat)
			require.Len(t, result.Images, 1)
			assert.Equal(t, "data:image/png;base64,cGF5bG9hZA==", result.Images[0].URL)
		})
	}
}

func TestGenerateDoesNotRetryExplicitB64(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "c", "i", 5*time.Second)
	_, err := client.Generate(context.Background(), entity.GenerateRequest{
		Prompt:         "a dog",
		ResponseFormat: FormatB64JSON,
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "explicit b64_json requests are not retried")
}

func TestGenerateDoesNotRetryUnrelatedErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad api key"}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "c", "i", 5*time.Second)
	_, err := client.Generate(context.Background(), entity.GenerateRequest{Prompt: "a dog"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "bad api key", apiErr.Message)
}

func TestGeneratePromptHandling(t *testing.T) {
	var seenPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req imageGenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		seenPrompt = req.Prompt
		w.Write([]byte(`{"created":1,"data":[]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "key", "c", "i", 5*time.Second)

	_, err := client.Generate(context.Background(), entity.GenerateRequest{Prompt: "   "})
	assert.ErrorIs(t, err, entity.ErrEmptyPrompt)

	_, err = client.Generate(context.Background(), entity.GenerateRequest{
		Prompt:         "a castle",
		NegativePrompt: "people",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(seenPrompt, "a castle"))
	assert.Contains(t, seenPrompt, "Avoid: people")
}
