package service

import (
	"context"

	"github.com/antonk9218/imgsuite/internal/entity"
	"github.com/antonk9218/imgsuite/internal/pkg/compressor"
	"github.com/antonk9218/imgsuite/internal/pkg/queue"
)

type CompressService interface {
	Compress(src []byte, filename string, quality float64) (*entity.CompressionResult, error)
}

type QueueService interface {
	Enqueue(uploads []entity.Upload) []entity.QueueItem
	Items() []entity.QueueItem
	Active() string
	Item(id string) (entity.QueueItem, error)
	Remove(id string) error
	SetActive(id string) error
	Run(ctx context.Context, apiKey string) error
}

type AIService interface {
	Recognize(ctx context.Context, req entity.VisionRequest) (*entity.VisionResult, error)
	Generate(ctx context.Context, req entity.GenerateRequest) (*entity.GenerateResult, error)
}

// CredentialProvider supplies the background-removal key for the current
// session; a per-request key always wins over it.
type CredentialProvider interface {
	RemovalKey() string
}

type staticCredentials struct {
	removalKey string
}

func NewStaticCredentials(removalKey string) CredentialProvider {
	return &staticCredentials{removalKey: removalKey}
}

func (c *staticCredentials) RemovalKey() string {
	return c.removalKey
}

type compressService struct {
	compressor compressor.Compressor
}

func NewCompressService(compressor compressor.Compressor) CompressService {
	return &compressService{compressor: compressor}
}

type queueService struct {
	queue       *queue.Queue
	creds       CredentialProvider
	previewSize int
}

func NewQueueService(q *queue.Queue, creds CredentialProvider, previewSize int) QueueService {
	return &queueService{
		queue:       q,
		creds:       creds,
		previewSize: previewSize,
	}
}
