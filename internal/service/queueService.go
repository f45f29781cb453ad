package service

import (
	"bytes"
	"context"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	_ "github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/antonk9218/imgsuite/internal/entity"
)

func (s *queueService) Enqueue(uploads []entity.Upload) []entity.QueueItem {
	previews := make([][]byte, len(uploads))
	for i, up := range uploads {
		previews[i] = s.buildPreview(up)
	}
	return s.queue.Enqueue(uploads, previews)
}

func (s *queueService) Items() []entity.QueueItem {
	return s.queue.Items()
}

func (s *queueService) Active() string {
	return s.queue.Active()
}

func (s *queueService) Item(id string) (entity.QueueItem, error) {
	return s.queue.Item(id)
}

func (s *queueService) Remove(id string) error {
	return s.queue.Remove(id)
}

func (s *queueService) SetActive(id string) error {
	return s.queue.SetActive(id)
}

func (s *queueService) Run(ctx context.Context, apiKey string) error {
	if apiKey == "" {
		apiKey = s.creds.RemovalKey()
	}
	return s.queue.Run(ctx, apiKey)
}

// buildPreview produces the bounded thumbnail each queue item owns for the
// UI. Best effort: an upload that fails to decode simply has no preview and
// will surface its problem when the provider rejects it.
func (s *queueService) buildPreview(up entity.Upload) []byte {
	img, _, err := image.Decode(bytes.NewReader(up.Data))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"filename": up.Filename,
			"error":    err.Error(),
		}).Warn("preview decode failed")
		return nil
	}

	thumb := imaging.Thumbnail(img, s.previewSize, s.previewSize, imaging.Lanczos)

	var buf bytes.Buffer
	if err := png.Encode(&buf, thumb); err != nil {
		logrus.WithField("filename", up.Filename).Warn("preview encode failed")
		return nil
	}
	return buf.Bytes()
}
