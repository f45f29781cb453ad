package entity

import "errors"

var (
	// Compression errors
	ErrInvalidQuality = errors.New("quality must be in (0, 1]")
	ErrDecodeFailed   = errors.New("image cannot be decoded")
	ErrEncodeFailed   = errors.New("image cannot be encoded")

	// Queue errors
	ErrEmptyQueue      = errors.New("queue is empty")
	ErrNoEligibleItems = errors.New("no items eligible for processing")
	ErrItemNotFound    = errors.New("queue item not found")
	ErrResultNotReady  = errors.New("item has no result yet")
	ErrBatchRunning    = errors.New("batch run already in progress")

	// Provider errors
	ErrMissingAPIKey       = errors.New("api key is not set")
	ErrProviderUnreachable = errors.New("provider request failed")
	ErrMalformedResponse   = errors.New("provider returned malformed response")

	// Request validation errors
	ErrEmptyPrompt      = errors.New("prompt must not be empty")
	ErrInvalidImageData = errors.New("imageDataUrl must be a data:image/ URI")
)
