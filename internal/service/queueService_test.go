package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antonk9218/imgsuite/internal/entity"
	"github.com/antonk9218/imgsuite/internal/pkg/queue"
	"github.com/antonk9218/imgsuite/internal/pkg/removal"
)

type keyRecordingRemover struct {
	lastKey string
}

func (r *keyRecordingRemover) Remove(ctx context.Context, image []byte, filename, apiKey string) (*removal.Result, error) {
	r.lastKey = apiKey
	return &removal.Result{Image: []byte("cut"), MimeType: "image/png"}, nil
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestEnqueueBuildsBoundedPreviews(t *testing.T) {
	svc := NewQueueService(queue.New(&keyRecordingRemover{}), NewStaticCredentials(""), 64)

	added := svc.Enqueue([]entity.Upload{
		{Filename: "big.png", Data: encodePNG(t, 640, 480)},
		{Filename: "broken.png", Data: []byte("not an image")},
	})
	require.Len(t, added, 2)

	require.NotEmpty(t, added[0].Preview)
	preview, err := png.Decode(bytes.NewReader(added[0].Preview))
	require.NoError(t, err)
	assert.LessOrEqual(t, preview.Bounds().Dx(), 64)
	assert.LessOrEqual(t, preview.Bounds().Dy(), 64)

	assert.Empty(t, added[1].Preview, "undecodable upload is queued without a preview")
	assert.Equal(t, entity.StatusPending, added[1].Status)
}

func TestRunResolvesCredential(t *testing.T) {
	remover := &keyRecordingRemover{}
	svc := NewQueueService(queue.New(remover), NewStaticCredentials("session-key"), 64)
	svc.Enqueue([]entity.Upload{{Filename: "a.png", Data: encodePNG(t, 8, 8)}})

	// configured key is the fallback
	require.NoError(t, svc.Run(context.Background(), ""))
	assert.Equal(t, "session-key", remover.lastKey)

	// an explicit key wins
	item := svc.Items()[0]
	require.NoError(t, svc.Remove(item.ID))
	svc.Enqueue([]entity.Upload{{Filename: "b.png", Data: encodePNG(t, 8, 8)}})
	require.NoError(t, svc.Run(context.Background(), "request-key"))
	assert.Equal(t, "request-key", remover.lastKey)
}

func TestRunWithoutAnyCredential(t *testing.T) {
	svc := NewQueueService(queue.New(&keyRecordingRemover{}), NewStaticCredentials(""), 64)
	svc.Enqueue([]entity.Upload{{Filename: "a.png", Data: encodePNG(t, 8, 8)}})

	err := svc.Run(context.Background(), "")
	assert.ErrorIs(t, err, entity.ErrMissingAPIKey)
}
